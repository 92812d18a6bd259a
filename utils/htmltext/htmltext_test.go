package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	in := `<div><h1>Photosynthesis</h1><p>Plants  use <b>light</b> &amp; water.</p>
<script>alert("x")</script><style>p{color:red}</style><ul><li>one</li><li>two</li></ul></div>`

	assert.Equal(t, "Photosynthesis\nPlants use light & water.\none\ntwo", Text(in))
}

func TestTextPassesPlainInputThrough(t *testing.T) {
	assert.Equal(t, "a < b and c > d", Text("  a < b and c > d "))
	assert.Equal(t, "no markup", Text("no markup"))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<p>x</p>"))
	assert.False(t, LooksLikeHTML("x < y"))
	assert.False(t, LooksLikeHTML("<>"))
}
