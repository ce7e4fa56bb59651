package format

const (
	truncHead = 7
	truncTail = 6
)

// TruncateAddress shortens an address for display: the first 7 characters,
// "..." and the last 6. Addresses shorter than 13 characters are returned as-is.
func TruncateAddress(address string) string {
	if len(address) < truncHead+truncTail {
		return address
	}
	return address[:truncHead] + "..." + address[len(address)-truncTail:]
}
