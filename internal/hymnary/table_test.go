package hymnary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wideHeader = `<tr><th>#</th><th>Text</th><th>First Line</th><th>Tune</th><th>Meter</th><th>Scripture</th><th>Audio</th></tr>`

func TestLocateTable(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		found bool
		id    string
	}{
		{
			name: "table after list anchor",
			html: `<table id="layout">` + wideHeader + `</table>
<a name="list"></a><table id="listing"><tr><th>#</th><th>Text</th></tr></table>`,
			found: true,
			id:    "listing",
		},
		{
			name:  "anchor nested deeper than the table",
			html:  `<div><p><a name="list"></a></p></div><div><table id="listing"><tr><td>1</td></tr></table></div>`,
			found: true,
			id:    "listing",
		},
		{
			name:  "anchor with no table after it does not fall back",
			html:  `<table id="wide">` + wideHeader + `</table><a name="list"></a><p>empty</p>`,
			found: false,
		},
		{
			name:  "fallback picks first wide table",
			html:  `<table id="narrow"><tr><th>a</th><th>b</th></tr></table><table id="wide">` + wideHeader + `</table>`,
			found: true,
			id:    "wide",
		},
		{
			name:  "fallback counts td header cells",
			html:  `<table id="tds"><tr><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td><td>7</td></tr></table>`,
			found: true,
			id:    "tds",
		},
		{
			name:  "no qualifying table",
			html:  `<table><tr><th>a</th><th>b</th><th>c</th></tr></table>`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.html))
			require.NoError(t, err)

			table, ok := LocateTable(doc)
			require.Equal(t, tt.found, ok)
			if tt.found {
				id, _ := table.Attr("id")
				assert.Equal(t, tt.id, id)
			}
		})
	}
}
