package mindmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func renderFixture() *Node {
	return &Node{
		Label: "Fotossíntese",
		Children: []*Node{
			{
				Label: "Fase clara",
				Children: []*Node{
					{Label: "Fotólise da água"},
					{Label: "Cadeia de elétrons"},
				},
			},
			{Label: "Fase escura"},
		},
	}
}

func TestOutline(t *testing.T) {
	want := `Fotossíntese
  - Fase clara
    - Fotólise da água
    - Cadeia de elétrons
  - Fase escura`

	assert.Equal(t, want, Outline(renderFixture()))
	assert.Empty(t, Outline(nil))
}

func TestASCIITree(t *testing.T) {
	want := `Fotossíntese
├── Fase clara
│   ├── Fotólise da água
│   └── Cadeia de elétrons
└── Fase escura`

	assert.Equal(t, want, ASCIITree(renderFixture()))
	assert.Empty(t, ASCIITree(nil))
}

func TestASCIITree_SingleNode(t *testing.T) {
	assert.Equal(t, "Raiz", ASCIITree(&Node{Label: "Raiz"}))
}
