// FILE: simpleconf/view_test.go
package simpleconf

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView(t *testing.T) *View {
	t.Helper()
	return NewView(mustTree(t, map[string]any{
		"server": map[string]any{
			"host":      "localhost",
			"port":      8080,
			"max-conns": 100,
			"2fa":       true,
			"type":      "http",
			"timeout":   "1500ms",
			"ratio":     "0.25",
			"debug":     "false",
			"tls":       map[string]any{"enabled": "yes"},
		},
		"hosts": []any{"a", map[string]any{"name": "b"}, 3},
		"empty": map[string]any{},
		"nil":   nil,
	}))
}

func TestViewAccess(t *testing.T) {
	v := sampleView(t)

	t.Run("FieldAndIndex", func(t *testing.T) {
		server, err := v.Field("server")
		require.NoError(t, err)
		sv, ok := server.(*View)
		require.True(t, ok)
		assert.Equal(t, "server", sv.Path())

		host, err := sv.Index("host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", host)

		tls, err := sv.Field("tls")
		require.NoError(t, err)
		assert.Equal(t, "server.tls", tls.(*View).Path())
	})

	t.Run("Aliases", func(t *testing.T) {
		sv, err := v.Section("server")
		require.NoError(t, err)

		conns, err := sv.Field("max_conns")
		require.NoError(t, err)
		assert.Equal(t, int64(100), conns)

		twoFA, err := sv.Field("_2fa")
		require.NoError(t, err)
		assert.Equal(t, true, twoFA)

		kind, err := sv.Field("type_")
		require.NoError(t, err)
		assert.Equal(t, "http", kind)

		indexed, err := sv.Index("max_conns")
		require.NoError(t, err)
		assert.Equal(t, int64(100), indexed)
		assert.Equal(t, int64(100), v.Int64("server.max_conns", 0))
		assert.True(t, v.Has("server._2fa"))

		tls, err := v.Select("server.tls")
		require.NoError(t, err)
		assert.Equal(t, "server.tls", tls.(*View).Path())
	})

	t.Run("MissingFails", func(t *testing.T) {
		_, err := v.Field("nope")
		assert.ErrorIs(t, err, ErrNoField)
		assert.ErrorIs(t, err, ErrLookup)

		_, err = v.Index("nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.ErrorIs(t, err, ErrLookup)
		assert.Contains(t, err.Error(), "<root>")

		sv, _ := v.Section("server")
		_, err = sv.Field("nope")
		assert.Contains(t, err.Error(), "server")
	})

	t.Run("Sequences", func(t *testing.T) {
		hosts, err := v.Index("hosts")
		require.NoError(t, err)
		items := hosts.([]any)
		require.Len(t, items, 3)
		assert.Equal(t, "a", items[0])
		assert.Equal(t, "hosts[1]", items[1].(*View).Path())
		assert.Equal(t, "b", items[1].(*View).String("name", ""))
		assert.Equal(t, int64(3), items[2])
	})

	t.Run("Select", func(t *testing.T) {
		got, err := v.Select("server.tls.enabled")
		require.NoError(t, err)
		assert.Equal(t, "yes", got)

		root, err := v.Select("")
		require.NoError(t, err)
		assert.Same(t, v, root)

		_, err = v.Select("server.host.deeper")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		_, err = v.Section("server.host")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NullValue", func(t *testing.T) {
		assert.True(t, v.Has("nil"))
		val, err := v.Index("nil")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("KeysAndLen", func(t *testing.T) {
		assert.Equal(t, []string{"empty", "hosts", "nil", "server"}, v.Keys())
		assert.Equal(t, 4, v.Len())
	})
}

func TestViewGet(t *testing.T) {
	v := sampleView(t)

	t.Run("Defaults", func(t *testing.T) {
		assert.Equal(t, "fallback", v.Get("server.missing", "fallback"))
		assert.Equal(t, "fallback", v.Get("server.host.deeper", "fallback"))
		assert.Equal(t, "fallback", v.Get("hosts.0", "fallback"))
		assert.Equal(t, "fallback", v.Get("", "fallback"))
		assert.Equal(t, "localhost", v.Get("server.host", "fallback"))
		assert.IsType(t, &View{}, v.Get("server.tls", nil))
	})

	t.Run("Coercion", func(t *testing.T) {
		assert.False(t, v.Bool("server.debug", true))
		assert.True(t, v.Bool("server.tls.enabled", false))
		assert.True(t, v.Bool("server.host", true), "unparsable returns default")
		assert.False(t, v.Bool("server.host", false), "unparsable returns default")

		assert.Equal(t, 8080, v.Int("server.port", 0))
		assert.Equal(t, int64(-1), v.Int64("server.host", -1))
		assert.Equal(t, 0.25, v.Float64("server.ratio", 0))
		assert.Equal(t, 8080.0, v.Float64("server.port", 0))
		assert.Equal(t, "8080", v.String("server.port", ""))
		assert.Equal(t, "dflt", v.String("server.tls", "dflt"))
		assert.Equal(t, 1500*time.Millisecond, v.Duration("server.timeout", 0))
		assert.Equal(t, time.Second, v.Duration("server.host", time.Second))
	})

	t.Run("IntegerRange", func(t *testing.T) {
		bad := NewView(Tree{
			"big":  Float(1e30),
			"nan":  Float(math.NaN()),
			"inf":  Float(math.Inf(-1)),
			"frac": Float(2.9),
		})
		for _, key := range []string{"big", "nan", "inf"} {
			assert.Equal(t, int64(-1), bad.Int64(key, -1), key)
			assert.Equal(t, -1, bad.Int(key, -1), key)
		}
		assert.Equal(t, int64(2), bad.Int64("frac", -1))
		assert.Equal(t, 2, bad.Int("frac", -1))
	})
}

func TestViewExport(t *testing.T) {
	v := sampleView(t)

	t.Run("ToMapDetached", func(t *testing.T) {
		m := v.ToMap()
		m["server"].(map[string]any)["host"] = "mutated"
		m["hosts"].([]any)[0] = "mutated"

		assert.Equal(t, "localhost", v.String("server.host", ""))
		hosts, _ := v.Index("hosts")
		assert.Equal(t, "a", hosts.([]any)[0])
	})

	t.Run("TreeDetached", func(t *testing.T) {
		tree := v.Tree()
		tree["server"].m["host"] = String("mutated")
		assert.Equal(t, "localhost", v.String("server.host", ""))
	})

	t.Run("Flatten", func(t *testing.T) {
		sv, _ := v.Section("server")
		flat := sv.Flatten()
		assert.Equal(t, "yes", flat["tls.enabled"])
		assert.Equal(t, int64(8080), flat["port"])

		rootFlat := v.Flatten()
		assert.Equal(t, map[string]any{}, rootFlat["empty"])
		assert.Equal(t, []any{"a", map[string]any{"name": "b"}, int64(3)}, rootFlat["hosts"])
	})

	t.Run("Debug", func(t *testing.T) {
		sv, _ := v.Section("server.tls")
		assert.Equal(t, "server.tls.enabled = yes\n", sv.Debug())
		assert.Contains(t, fmt.Sprintf("%#v", sv), `"enabled": "yes"`)
	})

	t.Run("WithOverrides", func(t *testing.T) {
		derived, err := v.WithOverrides(map[string]any{"server.port": 9000, "extra": map[string]any{"k": "v"}})
		require.NoError(t, err)
		assert.Equal(t, 9000, derived.Int("server.port", 0))
		assert.Equal(t, "v", derived.String("extra.k", ""))
		assert.Equal(t, 8080, v.Int("server.port", 0))
		assert.False(t, v.Has("extra"))

		_, err = v.WithOverrides(map[string]any{"server.host": map[string]any{"a": 1}})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("EnsureSection", func(t *testing.T) {
		_, err := EnsureSection("scalar", "x")
		assert.ErrorIs(t, err, ErrValidation)

		sec, err := EnsureSection(v.Get("server", nil), "server")
		require.NoError(t, err)
		assert.Equal(t, "server", sec.Path())
	})
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := map[string]string{
		"max-conns": "max_conns",
		"two words": "two_words",
		"2fa":       "_2fa",
		"type":      "type_",
		"func":      "func_",
		"plain":     "plain",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeIdentifier(in), in)
	}
}
