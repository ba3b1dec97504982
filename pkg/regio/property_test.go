package regio

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regio-project/regio-go/pkg/mmio"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

const propAddr = 0x10

var propPolicies = []model.Policy{
	model.ReadWrite(model.Replace),
	model.ReadWrite(model.Replace),
	model.ReadWrite(model.Ignore),
	model.ReadWrite(model.OneToSet),
	model.ReadWrite(model.OneToClear),
	model.ReadWrite(model.ZeroToSet),
	model.ReadWrite(model.ZeroToClear),
	model.ReadOnly(model.Ignore),
}

// randomRegister lays out fields of random size and policy over a
// register, leaving random gaps owned by no field.
func randomRegister(rng *rand.Rand, width int) *model.Register {
	var fields []*model.Field
	for bit := 0; bit < width; {
		if rng.Intn(4) == 0 {
			bit += 1 + rng.Intn(3)
			continue
		}
		n := 1 + rng.Intn(min(12, width-bit))
		f := model.NewField(fmt.Sprintf("f%d", len(fields)), bit+n-1, bit).
			WithPolicy(propPolicies[rng.Intn(len(propPolicies))])
		fields = append(fields, f)
		bit += n
	}
	return model.NewRegister("r", propAddr, width, fields...)
}

func writable(reg *model.Register) []*model.Field {
	var out []*model.Field
	for _, f := range reg.Fields() {
		if !f.Policy().IsReadOnly() {
			out = append(out, f)
		}
	}
	return out
}

func TestWriteProperties(t *testing.T) {
	const iterations = 300
	ctx := context.Background()

	for _, width := range []int{8, 16, 32, 64} {
		t.Run(fmt.Sprintf("%d bits", width), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(width) * 7919))

			for i := 0; i < iterations; i++ {
				mem := mmio.NewRegion(0, 0x40)
				reg := randomRegister(rng, width)
				g, err := model.NewGroup("prop", mmio.NewBus(mem), reg)
				require.NoError(t, err)

				candidates := writable(reg)
				if len(candidates) == 0 {
					continue
				}
				rng.Shuffle(len(candidates), func(a, b int) {
					candidates[a], candidates[b] = candidates[b], candidates[a]
				})
				written := candidates[:1+rng.Intn(len(candidates))]

				before := rng.Uint64() & reg.Mask()
				require.NoError(t, mem.Poke(propAddr, width/8, before))

				want := make(map[string]uint64, len(written))
				values := make([]path.ValuePath, 0, len(written))
				names := make([]string, 0, len(written))
				var writeMask uint64
				for _, f := range written {
					p := "r." + f.Name()
					v := rng.Uint64() & f.Max()
					want[p] = v
					values = append(values, path.V(p, v))
					names = append(names, p)
					writeMask |= f.Mask()
				}

				ws, err := NewWriteSpec(g, values...)
				require.NoError(t, err, "#%d", i)
				triple, ok := ws.Triple("r")
				require.True(t, ok)
				assert.Equal(t, writeMask, triple.Mask, "#%d", i)

				mem.ResetStats()
				require.NoError(t, BlockingWrite(ctx, g, values...), "#%d", i)
				loads, _ := mem.Counts()
				accesses := mem.Accesses()

				after, err := mem.Peek(propAddr, width/8)
				require.NoError(t, err)

				// Replace fields that were not written and bits owned by no
				// field keep their value.
				keep := reg.Mask() &^ reg.FieldMask()
				for _, f := range reg.Fields() {
					if f.Policy().Func == model.Replace && f.Mask()&writeMask == 0 {
						keep |= f.Mask()
					}
				}
				assert.Equal(t, before&keep, after&keep, "#%d: preserved bits %#x", i, keep)
				assert.Equal(t, triple.IdentityValue&triple.IdentityMask, after&triple.IdentityMask,
					"#%d: identity bits", i)

				if !triple.NeedsRead(width) {
					assert.Zero(t, loads, "#%d: write %+v needs no read", i, triple)
				}
				if loads == 0 {
					covered := triple.Mask | triple.IdentityMask
					for _, a := range accesses {
						span := model.WidthMask(a.Size*8) << ((a.Addr - propAddr) * 8)
						assert.Zero(t, span&^covered, "#%d: store %+v outside %#x", i, a, covered)
					}
				}

				r, err := BlockingRead(ctx, g, names...)
				require.NoError(t, err, "#%d", i)
				for p, v := range want {
					got, err := r.Get(p)
					require.NoError(t, err)
					assert.Equal(t, v, got, "#%d: %s", i, p)
				}
			}
		})
	}
}
