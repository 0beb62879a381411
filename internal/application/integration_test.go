package application

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passenger/internal/adapter/driven/breach"
	"github.com/ericfisherdev/passenger/internal/adapter/driven/document"
	"github.com/ericfisherdev/passenger/internal/adapter/driven/filestore"
	"github.com/ericfisherdev/passenger/internal/domain/model"
)

func TestVault_EndToEndOnFileStore(t *testing.T) {
	ctx := context.Background()
	store := filestore.New(t.TempDir())
	repo, err := document.NewRepository(store, "end-to-end-secret")
	require.NoError(t, err)

	v, err := OpenVault(ctx, owner, repo, breach.Default())
	require.NoError(t, err)
	require.NoError(t, v.Register(ctx, owner, master))
	require.NoError(t, v.DeclareConstant(ctx, model.ConstantPair{Key: "w", Value: "w@example.com"}))

	in := githubInput()
	in.Identity = "_$w"
	created, err := v.Create(ctx, in)
	require.NoError(t, err)
	_, err = v.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, v.Close())

	raw, err := os.ReadFile(store.Path(owner))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), master)
	assert.NotContains(t, string(raw), "w@example.com")

	reopened, err := OpenVault(ctx, owner, repo, breach.Default())
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.Authenticate(owner, master))
	one, err := reopened.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, one.TotalAccesses)
	assert.Equal(t, "w@example.com", one.Identity)
	assert.Equal(t, created.CreatedAt, one.CreatedAt)

	wrongKey, err := document.NewRepository(store, "not-the-secret")
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
	_, err = OpenVault(ctx, owner, wrongKey, breach.Default())
	require.ErrorIs(t, err, model.ErrIntegrity)
}
