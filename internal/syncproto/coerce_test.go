package syncproto_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/model"
	"owners-health-api/internal/syncproto"
)

func Test_ParseCount(t *testing.T) {
	t.Parallel()

	testCases := map[string]int{
		"0":     0,
		" 17 ":  17,
		"905":   905,
		"":      model.UnknownCount,
		"many":  model.UnknownCount,
		"12.5":  model.UnknownCount,
		"1,200": model.UnknownCount,
	}
	for raw, want := range testCases {
		assert.Equal(t, want, syncproto.ParseCount(raw), "raw=%q", raw)
	}
}

func Test_ParsePrice(t *testing.T) {
	t.Parallel()

	p := syncproto.ParsePrice("12,900")
	require.NotNil(t, p)
	assert.EqualValues(t, 12900, *p)

	p = syncproto.ParsePrice(" 1,234,567 ")
	require.NotNil(t, p)
	assert.EqualValues(t, 1234567, *p)

	assert.Nil(t, syncproto.ParsePrice(""))
	assert.Nil(t, syncproto.ParsePrice("12,900 won"))
	assert.Nil(t, syncproto.ParsePrice("free"))
}

func Test_NewPriceReport_Truncates_Title_And_URL(t *testing.T) {
	t.Parallel()

	title := strings.Repeat("가", 250)
	url := "https://shop.example.com/" + strings.Repeat("x", 600)

	r := syncproto.NewPriceReport("9,900", title, url)

	require.NotNil(t, r.Price)
	assert.EqualValues(t, 9900, *r.Price)
	assert.Equal(t, 200, utf8.RuneCountInString(r.Title))
	assert.Len(t, r.URL, 500)
}

func Test_ParseFlag_And_ParseID(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"1", "true", " YES "} {
		assert.True(t, syncproto.ParseFlag(raw), raw)
	}
	for _, raw := range []string{"", "0", "false", "maybe"} {
		assert.False(t, syncproto.ParseFlag(raw), raw)
	}

	assert.Equal(t, int64(42), syncproto.ParseID(" 42 "))
	assert.Zero(t, syncproto.ParseID("-3"))
	assert.Zero(t, syncproto.ParseID("abc"))
}
