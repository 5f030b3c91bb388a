// internal/access/access_test.go
package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fuelmap/internal/geo"
	"fuelmap/internal/model"
)

var testBounds = geo.BBox{MinLon: -124.5, MinLat: 38.5, MaxLon: -121.0, MaxLat: 42.0}

func newPrivateDataset(t *testing.T, owner uuid.UUID) *model.Dataset {
	t.Helper()
	ds, err := model.NewDataset("private-10m", model.OwnedBy(owner), model.KindCustomerPrivate, "FBFM40", 10.0, testBounds, 1)
	require.NoError(t, err)
	return ds
}

func TestCheckOwner(t *testing.T) {
	owner := uuid.New()
	ds := newPrivateDataset(t, owner)

	d := Check(owner, ds)
	require.True(t, d.HasAccess)
	require.Equal(t, RoleOwner, d.Role)
}

func TestCheckGlobal(t *testing.T) {
	ds, err := model.NewDataset("global", model.GlobalOwner(), model.KindGlobalBaseline, "FBFM40", 30.0, testBounds, 0)
	require.NoError(t, err)

	d := Check(uuid.New(), ds)
	require.True(t, d.HasAccess)
	require.Equal(t, RoleGlobal, d.Role)
}

func TestCheckShared(t *testing.T) {
	owner, friend := uuid.New(), uuid.New()
	ds := newPrivateDataset(t, owner)
	ds.Access.AllowedTenants = []uuid.UUID{friend}

	d := Check(friend, ds)
	require.True(t, d.HasAccess)
	require.Equal(t, RoleShared, d.Role)
}

func TestCheckDenied(t *testing.T) {
	ds := newPrivateDataset(t, uuid.New())

	d := Check(uuid.New(), ds)
	require.False(t, d.HasAccess)
	require.Equal(t, RoleDenied, d.Role)
	require.NotEmpty(t, d.Reason)
}

func TestCheckOwnerPrecedesShared(t *testing.T) {
	owner := uuid.New()
	ds := newPrivateDataset(t, owner)
	ds.Access.AllowedTenants = []uuid.UUID{owner}

	require.Equal(t, RoleOwner, Check(owner, ds).Role)
}

func TestCanUpload(t *testing.T) {
	tenant, err := model.NewTenant("acme", "ops@acme.test", 1000)
	require.NoError(t, err)

	require.True(t, CanUpload(tenant, 400, 500).CanUpload)
	require.True(t, CanUpload(tenant, 500, 500).CanUpload)

	q := CanUpload(tenant, 600, 500)
	require.False(t, q.CanUpload)
	require.NotEmpty(t, q.Reason)

	require.False(t, CanUpload(tenant, 0, -1).CanUpload)
}

func TestCommittedMBSkipsFailed(t *testing.T) {
	owner := uuid.New()

	a := newPrivateDataset(t, owner)
	a.SizeMB = 100
	b := newPrivateDataset(t, owner)
	b.SizeMB = 50
	b.Status = model.StatusFailed
	c := newPrivateDataset(t, owner)
	c.SizeMB = 25
	c.Status = model.StatusProcessed

	require.Equal(t, 125.0, CommittedMB([]*model.Dataset{a, b, c}))
}
