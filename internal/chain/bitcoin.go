package chain

func init() {
	Register("BTC", Mainnet, &Params{
		Symbol:   "BTC",
		Name:     "Bitcoin",
		Type:     ChainTypeBitcoin,
		Decimals: 8,

		// BIP84 native SegWit
		CoinType:       0,
		DefaultPurpose: 84,

		Bech32HRP: "bc",

		DefaultAddressType: AddressP2WPKH,
	})

	// testnet uses coin type 1
	Register("BTC", Testnet, &Params{
		Symbol:   "BTC",
		Name:     "Bitcoin Testnet",
		Type:     ChainTypeBitcoin,
		Decimals: 8,

		CoinType:       1,
		DefaultPurpose: 84,

		Bech32HRP: "tb",

		DefaultAddressType: AddressP2WPKH,
	})
}
