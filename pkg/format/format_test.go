package format

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"evm", "0x52908400098527886E0F7030069857D2E4169EE7", "0x52908...169EE7"},
		{"btc", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", "bc1qar0...wf5mdq"},
		{"exactly 13", "abcdefghijklm", "abcdefg...hijklm"},
		{"12 chars unchanged", "abcdefghijkl", "abcdefghijkl"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateAddress(tt.in))
		})
	}
}

func TestTruncateAddressShape(t *testing.T) {
	for n := 13; n < 80; n++ {
		addr := strings.Repeat("a", n/2) + strings.Repeat("b", n-n/2)
		got := TruncateAddress(addr)
		assert.Equal(t, addr[:7]+"..."+addr[len(addr)-6:], got)
	}
}

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		kind  Asset
		value float64
		want  string
	}{
		{AssetBTC, 1.5, "1.50000000"},
		{AssetBTC, 0, "0.00000000"},
		{AssetBTC, 0.00000001, "0.00000001"},
		{AssetETH, 2, "2.000000000000000000"},
		{AssetETH, 0.1, "0.100000000000000000"},
		{AssetLUSD, 100.25, "100.250000000000000000"},
		{"btc", 3, "3.00000000"},
	}

	for _, tt := range tests {
		got, err := FormatBalance(tt.kind, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "FormatBalance(%s, %v)", tt.kind, tt.value)
	}
}

func TestFormatBalanceDecimalCount(t *testing.T) {
	values := []float64{0, 1, 0.5, 123456.789, 1e-9, 21e6}
	for _, v := range values {
		btc := FormatBitcoinBalance(v)
		assert.Len(t, btc[strings.Index(btc, ".")+1:], 8, btc)

		eth := FormatEthereumBalance(v)
		assert.Len(t, eth[strings.Index(eth, ".")+1:], 18, eth)

		lusd := FormatLusdBalance(v)
		assert.Len(t, lusd[strings.Index(lusd, ".")+1:], 18, lusd)
	}
}

func TestFormatBalanceUnknownAsset(t *testing.T) {
	_, err := FormatBalance("DOGE", 1)
	assert.True(t, errors.Is(err, ErrUnknownAsset))
}

func TestFormatBalanceNonFinite(t *testing.T) {
	assert.Equal(t, "NaN", FormatBitcoinBalance(math.NaN()))
	assert.Equal(t, "Infinity", FormatEthereumBalance(math.Inf(1)))
	assert.Equal(t, "-Infinity", FormatLusdBalance(math.Inf(-1)))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount *big.Int
		places uint8
		want   string
	}{
		{big.NewInt(100000000), 8, "1"},
		{big.NewInt(150000000), 8, "1.5"},
		{big.NewInt(1), 8, "0.00000001"},
		{new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), 18, "1"},
		{big.NewInt(0), 18, "0"},
		{nil, 8, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.places))
	}
}

func TestClipboardCopy(t *testing.T) {
	var (
		mu      sync.Mutex
		written []string
	)
	write := func(text string) error {
		mu.Lock()
		written = append(written, text)
		mu.Unlock()
		return nil
	}

	c := NewClipboard(write, 20*time.Millisecond)
	defer c.Close()

	labels := make(chan string, 4)
	cancel := c.Subscribe(func(l string) { labels <- l })
	defer cancel()

	assert.Equal(t, LabelCopy, c.Label())
	require.NoError(t, c.Copy("bc1qexample"))
	assert.Equal(t, LabelCopied, c.Label())

	assert.Equal(t, LabelCopied, <-labels)
	select {
	case l := <-labels:
		assert.Equal(t, LabelCopy, l)
	case <-time.After(time.Second):
		t.Fatal("label was not reset")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"bc1qexample"}, written)
}

func TestClipboardCopyRestartsTimer(t *testing.T) {
	c := NewClipboard(func(string) error { return nil }, 60*time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Copy("a"))
	time.Sleep(40 * time.Millisecond)
	require.NoError(t, c.Copy("b"))
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, LabelCopied, c.Label(), "second copy should extend the copied label")

	assert.Eventually(t, func() bool { return c.Label() == LabelCopy }, time.Second, 10*time.Millisecond)
}

func TestClipboardTinyResetSettlesOnCopy(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := NewClipboard(func(string) error { return nil }, time.Nanosecond)

		var (
			mu   sync.Mutex
			seen []string
		)
		cancel := c.Subscribe(func(l string) {
			mu.Lock()
			seen = append(seen, l)
			mu.Unlock()
		})

		require.NoError(t, c.Copy("addr"))
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(seen) == 2
		}, time.Second, time.Millisecond)

		mu.Lock()
		assert.Equal(t, []string{LabelCopied, LabelCopy}, seen)
		mu.Unlock()
		assert.Equal(t, LabelCopy, c.Label())

		cancel()
		c.Close()
	}
}

func TestClipboardWriteError(t *testing.T) {
	boom := errors.New("no clipboard")
	c := NewClipboard(func(string) error { return boom }, time.Second)
	defer c.Close()

	err := c.Copy("addr")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, LabelCopy, c.Label())
}
