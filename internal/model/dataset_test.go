// internal/model/dataset_test.go
package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fuelmap/internal/geo"
)

var testBounds = geo.BBox{MinLon: -124.5, MinLat: 38.5, MaxLon: -121.0, MaxLat: 42.0}

func TestNewDatasetCustomer(t *testing.T) {
	owner := uuid.New()
	ds, err := NewDataset("norcal-10m", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 1)
	require.NoError(t, err)

	require.Equal(t, StatusProcessing, ds.Status)
	require.Equal(t, VisibilityPrivate, ds.Access.Visibility)
	require.False(t, ds.Access.PublicAccess)
	require.True(t, ds.Owner.Is(owner))
}

func TestNewDatasetGlobal(t *testing.T) {
	ds, err := NewDataset("global-baseline", GlobalOwner(), KindGlobalBaseline, "FBFM40", 30.0, testBounds, 0)
	require.NoError(t, err)

	require.True(t, ds.Owner.IsGlobal())
	require.Equal(t, VisibilityPublic, ds.Access.Visibility)
	require.True(t, ds.Access.PublicAccess)
}

func TestNewDatasetKindPriorityConsistency(t *testing.T) {
	owner := uuid.New()

	// Global baseline must be priority 0 and globally owned.
	_, err := NewDataset("g", GlobalOwner(), KindGlobalBaseline, "FBFM40", 30.0, testBounds, 1)
	require.Error(t, err)
	_, err = NewDataset("g", OwnedBy(owner), KindGlobalBaseline, "FBFM40", 30.0, testBounds, 0)
	require.Error(t, err)

	// Customer datasets must be priority >= 1 and tenant owned.
	_, err = NewDataset("c", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 0)
	require.Error(t, err)
	_, err = NewDataset("c", GlobalOwner(), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 1)
	require.Error(t, err)

	// Open priority scale: any value >= 1 is fine for customer data.
	_, err = NewDataset("c", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 7)
	require.NoError(t, err)
}

func TestNewDatasetRejectsBadInputs(t *testing.T) {
	owner := uuid.New()

	_, err := NewDataset("", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 1)
	require.Error(t, err)

	_, err = NewDataset("d", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 0, testBounds, 1)
	require.Error(t, err)

	inverted := geo.BBox{MinLon: -121.0, MinLat: 38.5, MaxLon: -124.5, MaxLat: 42.0}
	_, err = NewDataset("d", OwnedBy(owner), KindCustomerPrivate, "FBFM40", 10.0, inverted, 1)
	require.Error(t, err)

	_, err = NewDataset("d", OwnedBy(owner), "mystery_kind", "FBFM40", 10.0, testBounds, 1)
	require.Error(t, err)
}

func TestAccessControlPublicInvariant(t *testing.T) {
	ac, err := NewAccessControl(VisibilityPublic, nil)
	require.NoError(t, err)
	require.True(t, ac.PublicAccess)

	ac, err = NewAccessControl(VisibilityPrivate, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	require.False(t, ac.PublicAccess)

	_, err = NewAccessControl("internal", nil)
	require.Error(t, err)
}

func TestAccessControlAllows(t *testing.T) {
	friend := uuid.New()
	ac, err := NewAccessControl(VisibilityPrivate, []uuid.UUID{friend})
	require.NoError(t, err)

	require.True(t, ac.Allows(friend))
	require.False(t, ac.Allows(uuid.New()))
}

func TestCoverageFromBounds(t *testing.T) {
	ds, err := NewDataset("d", OwnedBy(uuid.New()), KindCustomerPrivate, "FBFM40", 10.0, testBounds, 3)
	require.NoError(t, err)

	c, err := CoverageFromBounds(ds)
	require.NoError(t, err)
	require.Equal(t, ds.ID, c.DatasetID)
	require.Equal(t, 3, c.Priority)
	require.Equal(t, 10.0, c.ResolutionMeters)
	require.Equal(t, testBounds, c.Footprint.BBox())
	require.NoError(t, c.Footprint.Validate())
}
