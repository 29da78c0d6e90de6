package org

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category and uppercases code", func(t *testing.T) {
		c, err := NewCategory("comp", "Computers")
		require.NoError(t, err)
		assert.Equal(t, "COMP", c.Code)
		assert.Equal(t, "Computers", c.Name)
		assert.True(t, c.Active)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewCategory("", "Computers")
		require.Error(t, err)
	})

	t.Run("rejects invalid code characters", func(t *testing.T) {
		_, err := NewCategory("CO MP", "Computers")
		require.Error(t, err)

		_, err = NewCategory("COMP!", "Computers")
		require.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewCategory("COMP", strings.Repeat("x", 101))
		require.Error(t, err)
	})
}

func TestCategoryUpdate(t *testing.T) {
	c, err := NewCategory("COMP", "Computers")
	require.NoError(t, err)
	version := c.Version

	require.NoError(t, c.Update("Computing Equipment", "Laptops and desktops"))
	assert.Equal(t, "Computing Equipment", c.Name)
	assert.Equal(t, "Laptops and desktops", c.Description)
	assert.Equal(t, version+1, c.Version)

	require.Error(t, c.Update("", ""))
}

func TestNewSubcategory(t *testing.T) {
	parent := uuid.New()

	t.Run("creates subcategory under parent", func(t *testing.T) {
		s, err := NewSubcategory(parent, "Laptops", "Portable computers")
		require.NoError(t, err)
		assert.Equal(t, parent, s.CategoryID)
		assert.Equal(t, "Laptops", s.Name)
	})

	t.Run("requires a parent category", func(t *testing.T) {
		_, err := NewSubcategory(uuid.Nil, "Laptops", "")
		require.Error(t, err)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewSubcategory(parent, "  ", "")
		require.Error(t, err)
	})
}
