package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

func testSnapshot() []models.RegistryRecord {
	return []models.RegistryRecord{
		{
			RegistrationFields: models.FieldMap{"registrationNumber": "INA000012345"},
			NameFields:         models.FieldMap{"name": "Rajesh Kumar"},
			Status:             models.RegistryActive,
			Verified:           true,
		},
		{
			RegistrationFields: models.FieldMap{"regNo": "INA000067890"},
			NameFields:         models.FieldMap{"advisorName": "Priya Sharma", "companyName": "Sharma Wealth Advisors"},
			Status:             models.RegistrySuspended,
			Verified:           false,
		},
		{
			RegistrationFields: models.FieldMap{"licenseId": "INH000054321"},
			NameFields:         models.FieldMap{"entityName": "Acme Capital Advisors"},
			Status:             models.RegistryActive,
			Verified:           true,
		},
	}
}

func TestResolveByRegistration(t *testing.T) {
	r := New()
	r.Load(testSnapshot())

	t.Run("exact match", func(t *testing.T) {
		record, err := r.ResolveByRegistration("INA000012345")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "Rajesh Kumar", record.NameFields["name"])
	})

	t.Run("case-insensitive and trimmed", func(t *testing.T) {
		record, err := r.ResolveByRegistration("  ina000067890 ")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, models.RegistrySuspended, record.Status)
	})

	t.Run("alternate identifier field", func(t *testing.T) {
		record, err := r.ResolveByRegistration("INH000054321")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.True(t, record.Verified)
	})

	t.Run("no match", func(t *testing.T) {
		record, err := r.ResolveByRegistration("INA999999999")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("empty identifier", func(t *testing.T) {
		record, err := r.ResolveByRegistration("   ")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestResolveByRegistration_EmptySnapshot(t *testing.T) {
	r := New()
	_, err := r.ResolveByRegistration("INA000012345")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolveByName(t *testing.T) {
	r := New()
	r.Load(testSnapshot())

	t.Run("exact name scores highest", func(t *testing.T) {
		candidates, err := r.ResolveByName("Rajesh Kumar", DefaultNameThreshold)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.Equal(t, 1.0, candidates[0].Similarity)
		assert.Equal(t, "name", candidates[0].MatchedField)
	})

	t.Run("close misspelling still matches", func(t *testing.T) {
		candidates, err := r.ResolveByName("Rajesh Kumaar", DefaultNameThreshold)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.GreaterOrEqual(t, candidates[0].Similarity, 0.9)
	})

	t.Run("unrelated name yields nothing", func(t *testing.T) {
		candidates, err := r.ResolveByName("Zzzz Qqqq", DefaultNameThreshold)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("first qualifying field wins per record", func(t *testing.T) {
		candidates, err := r.ResolveByName("Priya Sharma", DefaultNameThreshold)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.Equal(t, "advisorName", candidates[0].MatchedField)
	})

	t.Run("sorted by similarity descending", func(t *testing.T) {
		candidates, err := r.ResolveByName("Acme Capital Advisers", 0.1)
		require.NoError(t, err)
		require.True(t, len(candidates) >= 2)
		for i := 1; i < len(candidates); i++ {
			assert.GreaterOrEqual(t, candidates[i-1].Similarity, candidates[i].Similarity)
		}
	})
}

func TestResolveByName_EmptySnapshot(t *testing.T) {
	r := New()
	_, err := r.ResolveByName("Rajesh Kumar", DefaultNameThreshold)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadReplacesSnapshot(t *testing.T) {
	r := New()
	r.Load(testSnapshot())
	assert.Equal(t, 3, r.Size())

	r.Load([]models.RegistryRecord{})
	assert.Equal(t, 0, r.Size())

	_, err := r.ResolveByRegistration("INA000012345")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advisors.json")

	payload := `[
		{"registrationNumber": "INA000012345", "name": "Rajesh Kumar", "status": "Active", "sebiVerified": true},
		{"regNo": "INA000067890", "advisorName": "Priya Sharma", "status": "suspended"},
		{"entityName": "No Status Entity"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	records, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.RegistryActive, records[0].Status)
	assert.True(t, records[0].Verified)
	assert.Equal(t, "INA000012345", records[0].RegistrationFields["registrationNumber"])

	assert.Equal(t, models.RegistrySuspended, records[1].Status)
	assert.False(t, records[1].Verified)

	assert.Equal(t, models.RegistryUnknown, records[2].Status)
	assert.Equal(t, "No Status Entity", records[2].NameFields["entityName"])
}

func TestLoadSnapshotFile_Missing(t *testing.T) {
	_, err := LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
