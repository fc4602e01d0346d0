package noisefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

func TestMethodNames(t *testing.T) {
	f := NewMethodNames("println", "print")

	cases := []struct {
		qn   string
		want bool
	}{
		{"java.io.PrintStream.println", true},
		{"PrintStream.print", true},
		{"print", true},
		{"java.lang.String.trim", false},
		{"printf", false},
	}
	for _, c := range cases {
		t.Run(c.qn, func(t *testing.T) {
			assert.Equal(t, c.want, f.IsNoise(c.qn))
		})
	}
}

func TestGetNoiseFilter_Unregistered(t *testing.T) {
	f := GetNoiseFilter(model.Language("cobol"))
	assert.IsType(t, PassThrough{}, f)
	assert.False(t, f.IsNoise("System.out.println"))
}

func TestSplitQualifiedName(t *testing.T) {
	owner, method := SplitQualifiedName("java.util.List.add")
	assert.Equal(t, "java.util.List", owner)
	assert.Equal(t, "add", method)

	owner, method = SplitQualifiedName("run")
	assert.Empty(t, owner)
	assert.Equal(t, "run", method)
}
