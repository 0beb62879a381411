package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

func TestVault_DeclareConstant(t *testing.T) {
	v, repo, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "email", Value: "a@example.com"}))
	assert.Equal(t, []model.ConstantPair{{Key: "email", Value: "a@example.com"}}, repo.docs[owner].Constants)

	err := v.DeclareConstant(ctx, model.ConstantPair{Key: "email", Value: "b@example.com"})
	require.ErrorIs(t, err, model.ErrConflict)

	tests := []struct {
		name  string
		pair  model.ConstantPair
		field string
	}{
		{"missing key", model.ConstantPair{Value: "v"}, "key"},
		{"missing value", model.ConstantPair{Key: "k"}, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.DeclareConstant(ctx, tt.pair)
			require.ErrorIs(t, err, model.ErrValidation)

			var coded *model.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.field, coded.Field)
		})
	}
}

func TestVault_ModifyConstant(t *testing.T) {
	v, repo, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "email", Value: "a@example.com"}))
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "phone", Value: "555"}))

	t.Run("in place", func(t *testing.T) {
		require.NoError(t, v.ModifyConstant(ctx, "email", model.ConstantPair{Key: "email", Value: "new@example.com"}))
		got, err := v.RememberConstant("email")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", got.Value)
	})

	t.Run("rename onto existing key", func(t *testing.T) {
		err := v.ModifyConstant(ctx, "email", model.ConstantPair{Key: "phone", Value: "x"})
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("unknown key", func(t *testing.T) {
		err := v.ModifyConstant(ctx, "fax", model.ConstantPair{Key: "fax", Value: "x"})
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("rename keeps position", func(t *testing.T) {
		require.NoError(t, v.ModifyConstant(ctx, "email", model.ConstantPair{Key: "mail", Value: "m@example.com"}))
		assert.Equal(t, "mail", repo.docs[owner].Constants[0].Key)
		_, err := v.RememberConstant("email")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestVault_RenamedConstantLeavesReferencesLiteral(t *testing.T) {
	v, _, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "w", Value: "w@example.com"}))

	in := githubInput()
	in.Identity = "_$w"
	created, err := v.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, v.ModifyConstant(ctx, "w", model.ConstantPair{Key: "work", Value: "w@example.com"}))

	one, err := v.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "_$w", one.Identity)
}

func TestVault_ForgetConstant(t *testing.T) {
	v, repo, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "a", Value: "1"}))
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "b", Value: "2"}))

	require.NoError(t, v.ForgetConstant(ctx, "a"))
	assert.Equal(t, []model.ConstantPair{{Key: "b", Value: "2"}}, repo.docs[owner].Constants)

	require.ErrorIs(t, v.ForgetConstant(ctx, "a"), model.ErrNotFound)
}

func TestVault_ConstantsIsACopy(t *testing.T) {
	v, _, _ := setupVault(t)
	ctx := context.Background()

	empty, err := v.Constants()
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "a", Value: "1"}))
	got, err := v.Constants()
	require.NoError(t, err)
	got[0].Value = "changed"

	again, err := v.RememberConstant("a")
	require.NoError(t, err)
	assert.Equal(t, "1", again.Value)
}
