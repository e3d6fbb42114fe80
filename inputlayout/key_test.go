package inputlayout

import (
	"testing"

	"github.com/gogpu/fx/vertex"
	"github.com/stretchr/testify/assert"
)

func TestKeyFreezeCopies(t *testing.T) {
	var k Key
	k.Add(declA(), 0)
	k.Add(declB(), 2)

	f := k.Freeze()
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, k.Hash(), f.Hash())
	assert.True(t, f.Matches(&k))

	k.Reset()
	assert.Zero(t, k.Count())
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, []int{0, 2}, f.InstanceFrequencies())
	assert.False(t, f.Matches(&k))
}

func TestFrozenKeyEqual(t *testing.T) {
	var a, b Key
	a.Set(vertex.Binding{Declaration: declA()}, vertex.Binding{Declaration: declB(), InstanceFrequency: 1})
	b.Set(vertex.Binding{Declaration: declA()}, vertex.Binding{Declaration: declB(), InstanceFrequency: 1})

	assert.True(t, a.Freeze().Equal(b.Freeze()))

	b.Set(vertex.Binding{Declaration: declB(), InstanceFrequency: 1}, vertex.Binding{Declaration: declA()})
	assert.False(t, a.Freeze().Equal(b.Freeze()))

	b.Set(vertex.Binding{Declaration: declA()}, vertex.Binding{Declaration: declB(), InstanceFrequency: 2})
	assert.False(t, a.Freeze().Equal(b.Freeze()))
}

func TestFrozenKeyAccessorsCopy(t *testing.T) {
	var k Key
	k.Add(declA(), 0)
	f := k.Freeze()

	decls := f.VertexDeclarations()
	decls[0] = nil
	assert.NotNil(t, f.VertexDeclarations()[0])
}
