package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaults(t *testing.T) {
	p := Parse(url.Values{})
	assert.Equal(t, Params{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())
}

func TestParseClampsAndIgnoresGarbage(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 100}, Parse(url.Values{"page": {"0"}, "limit": {"500"}}))
	assert.Equal(t, Params{Page: 1, Limit: 10}, Parse(url.Values{"page": {"abc"}, "limit": {"-3"}}))
	assert.Equal(t, 40, Parse(url.Values{"page": {"3"}, "limit": {"20"}}).Offset())
}

func TestParseClampsHugePage(t *testing.T) {
	p := Parse(url.Values{"page": {"9223372036854775807"}, "limit": {"100"}})
	assert.Equal(t, MaxPage, p.Page)
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.Offset())
	assert.Positive(t, p.Offset())
}

func TestMeta(t *testing.T) {
	cases := []struct {
		name  string
		p     Params
		total int
		want  Meta
	}{
		{"single page", Params{1, 10}, 2, Meta{1, 10, 2, 1, false, false}},
		{"empty", Params{1, 10}, 0, Meta{1, 10, 0, 0, false, false}},
		{"middle", Params{2, 10}, 25, Meta{2, 10, 25, 3, true, true}},
		{"last", Params{3, 10}, 25, Meta{3, 10, 25, 3, false, true}},
		{"exact multiple", Params{1, 5}, 10, Meta{1, 5, 10, 2, true, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewMeta(tc.p, tc.total))
		})
	}
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[string](nil, Params{1, 10}, 0)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}
