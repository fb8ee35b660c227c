package lineage

import (
	"testing"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store/storetest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type chains struct {
	ID      string
	Parent  doc.Lineage
	Contact doc.Lineage
}

func chainsOf(t *testing.T, docs []*doc.Document) []chains {
	t.Helper()
	out := make([]chains, 0, len(docs))
	for _, d := range docs {
		parent, err := d.Parent()
		require.NoError(t, err)
		contact, err := d.Contact()
		require.NoError(t, err)
		out = append(out, chains{ID: d.ID(), Parent: parent, Contact: contact})
	}
	return out
}

func TestBuildSubtree(t *testing.T) {
	chain := storetest.Chain
	moved := storetest.Build(map[string]any{
		"_id":     "health_center_1",
		"type":    "health_center",
		"parent":  chain("district_1"),
		"contact": chain("health_center_1_contact", "health_center_1", "district_1"),
	})
	members := []*doc.Document{
		moved,
		storetest.Build(map[string]any{
			"_id":    "health_center_1_contact",
			"type":   "person",
			"parent": chain("health_center_1", "district_1"),
		}),
		storetest.Build(map[string]any{
			"_id":     "clinic_1",
			"type":    "clinic",
			"parent":  chain("health_center_1", "district_1"),
			"contact": chain("clinic_1_contact", "clinic_1", "health_center_1", "district_1"),
		}),
		storetest.Build(map[string]any{
			"_id":    "stray",
			"type":   "person",
			"parent": chain("elsewhere"),
		}),
	}

	got, err := buildSubtree(moved, members, doc.Lineage{"district_2"})
	require.NoError(t, err)

	want := []chains{
		{
			ID:      "health_center_1",
			Parent:  doc.Lineage{"district_2"},
			Contact: doc.Lineage{"health_center_1_contact", "health_center_1", "district_2"},
		},
		{
			ID:     "health_center_1_contact",
			Parent: doc.Lineage{"health_center_1", "district_2"},
		},
		{
			ID:      "clinic_1",
			Parent:  doc.Lineage{"health_center_1", "district_2"},
			Contact: doc.Lineage{"clinic_1_contact", "clinic_1", "health_center_1", "district_2"},
		},
	}
	if diff := cmp.Diff(want, chainsOf(t, got)); diff != "" {
		t.Errorf("buildSubtree() mismatch (-want +got):\n%s", diff)
	}

	original, err := moved.Parent()
	require.NoError(t, err)
	require.Equal(t, doc.Lineage{"district_1"}, original, "inputs must not be modified")
}

func TestBuildSubtree_ToRoot(t *testing.T) {
	moved := storetest.Build(map[string]any{
		"_id":    "health_center_1",
		"type":   "health_center",
		"parent": storetest.Chain("district_1"),
	})
	got, err := buildSubtree(moved, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.False(t, got[0].Has(doc.FieldContact))

	parent, err := got[0].Parent()
	require.NoError(t, err)
	require.Empty(t, parent)
}

func TestCascadePrimaryContacts(t *testing.T) {
	chain := storetest.Chain
	ancestors := []*doc.Document{
		storetest.Build(map[string]any{
			"_id":     "health_center_1",
			"parent":  chain("district_1"),
			"contact": chain("patient_1", "clinic_1", "health_center_1", "district_1"),
		}),
		storetest.Build(map[string]any{
			"_id":     "district_1",
			"contact": chain("patient_1", "clinic_1", "health_center_1", "district_1"),
		}),
		storetest.Build(map[string]any{
			"_id":     "region",
			"contact": chain("someone_else"),
		}),
	}
	patient := storetest.Build(map[string]any{
		"_id":    "patient_1",
		"parent": chain("clinic_1", "health_center_1", "district_2"),
	})
	current := func(id string) *doc.Document {
		if id == "patient_1" {
			return patient
		}
		return nil
	}

	got, err := cascadePrimaryContacts(ancestors, map[string]bool{"patient_1": true, "clinic_1": true}, current)
	require.NoError(t, err)

	moved := doc.Lineage{"patient_1", "clinic_1", "health_center_1", "district_2"}
	want := []chains{
		{ID: "district_1", Contact: moved},
		{ID: "health_center_1", Parent: doc.Lineage{"district_1"}, Contact: moved},
	}
	if diff := cmp.Diff(want, chainsOf(t, got)); diff != "" {
		t.Errorf("cascadePrimaryContacts() mismatch (-want +got):\n%s", diff)
	}
}
