package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogIsTotal(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Definitions() {
		require.NotEmpty(t, def.Name, "key %d", def.Key)
		require.NotEmpty(t, def.Group)
		require.NotEmpty(t, def.Label)
		require.False(t, seen[def.Name], "duplicate %s", def.Name)
		seen[def.Name] = true

		key, ok := Lookup(def.Name)
		require.True(t, ok)
		require.Equal(t, def.Key, key)
	}
	require.Len(t, seen, int(NumKeys))
}

func TestGroupsCoverEveryKeyOnce(t *testing.T) {
	count := 0
	for _, group := range Groups() {
		require.NotEmpty(t, group.Label)
		require.NotEmpty(t, group.Keys, "group %s is empty", group.ID)
		for _, def := range group.Keys {
			require.Equal(t, group.ID, def.Group)
			count++
		}
	}
	require.Equal(t, int(NumKeys), count)
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("can_launch_rockets")
	require.False(t, ok)

	key, ok := Lookup("  can_view_billing ")
	require.True(t, ok)
	require.Equal(t, ViewBilling, key)
}

func TestKeyStringOutOfRange(t *testing.T) {
	require.Equal(t, "can_view_crm", ViewCRM.String())
	require.Equal(t, "Key(99)", Key(99).String())
	require.False(t, Key(-1).Valid())
	require.False(t, NumKeys.Valid())
}
