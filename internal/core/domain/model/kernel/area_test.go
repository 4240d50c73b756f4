package kernel_test

import (
	"testing"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArea(t *testing.T) {
	t.Run("trims and keeps both parts", func(t *testing.T) {
		area, err := kernel.NewArea("  Gampaha ", "Negombo ")

		require.NoError(t, err)
		assert.Equal(t, "Gampaha", area.District())
		assert.Equal(t, "Negombo", area.Town())
		require.NoError(t, area.Validate())
	})

	t.Run("town containing a colon is kept intact", func(t *testing.T) {
		area, err := kernel.NewArea("Colombo", "Fort:North")

		require.NoError(t, err)
		assert.Equal(t, "Colombo", area.District())
		assert.Equal(t, "Fort:North", area.Town())
	})

	t.Run("rejects empty parts", func(t *testing.T) {
		_, err := kernel.NewArea("", " ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "district")
		assert.Contains(t, err.Error(), "town")
	})

	t.Run("equal areas are equal map keys", func(t *testing.T) {
		a1, _ := kernel.NewArea("Colombo", "Negombo")
		a2, _ := kernel.NewArea("Colombo", " Negombo")
		set := map[kernel.Area]struct{}{a1: {}}

		_, ok := set[a2]
		assert.True(t, ok)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var area kernel.Area
		require.ErrorIs(t, area.Validate(), kernel.ErrAreaIsNotConstructed)
	})
}

func TestAreasFromDistrictMap(t *testing.T) {
	t.Run("flattens and deduplicates", func(t *testing.T) {
		areas, err := kernel.AreasFromDistrictMap(map[string][]string{
			"Gampaha": {"Negombo", "Ja-Ela", "Negombo"},
			"Colombo": {"Dehiwala"},
		})

		require.NoError(t, err)
		require.Len(t, areas, 3)
		assert.Equal(t, "Colombo", areas[0].District())
		assert.Equal(t, "Dehiwala", areas[0].Town())
		assert.Equal(t, "Ja-Ela", areas[1].Town())
		assert.Equal(t, "Negombo", areas[2].Town())
	})

	t.Run("empty map yields empty set", func(t *testing.T) {
		areas, err := kernel.AreasFromDistrictMap(map[string][]string{})

		require.NoError(t, err)
		assert.Empty(t, areas)
	})

	t.Run("district without towns is rejected", func(t *testing.T) {
		_, err := kernel.AreasFromDistrictMap(map[string][]string{"Kandy": {}})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("blank town is rejected", func(t *testing.T) {
		_, err := kernel.AreasFromDistrictMap(map[string][]string{"Kandy": {"Kandy", ""}})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestAreasToDistrictMap(t *testing.T) {
	a1, _ := kernel.NewArea("Gampaha", "Negombo")
	a2, _ := kernel.NewArea("Gampaha", "Ja-Ela")
	a3, _ := kernel.NewArea("Kandy", "Kandy")

	m := kernel.AreasToDistrictMap([]kernel.Area{a1, a3, a2})

	assert.Equal(t, map[string][]string{
		"Gampaha": {"Ja-Ela", "Negombo"},
		"Kandy":   {"Kandy"},
	}, m)
}
