package bucket

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/synabon/synabon/internal/models"
)

func TestIndexIsDeterministic(t *testing.T) {
	first := Index("u1", "s", 10)
	second := Index("u1", "s", 10)
	if first != second {
		t.Errorf("Index not deterministic: %d vs %d", first, second)
	}
	if first < 0 || first >= 10 {
		t.Errorf("Index out of range: %d", first)
	}
}

func TestAssignSingleCount(t *testing.T) {
	ids := []string{"u1", "u2", "u3", "u1"}

	a, err := Assign(ids, []int{10}, "fixed")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if a.Salt != "fixed" {
		t.Errorf("salt = %q, want the supplied one", a.Salt)
	}
	if len(a.Columns) != 1 || a.Columns[0].Name != "group" {
		t.Fatalf("columns = %+v, want a single column named group", a.Columns)
	}

	groups := a.Columns[0].Groups
	if len(groups) != len(ids) {
		t.Fatalf("got %d indices for %d rows", len(groups), len(ids))
	}
	if groups[0] != groups[3] {
		t.Error("identical identifiers mapped to different buckets")
	}
}

func TestAssignMultipleCounts(t *testing.T) {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d", i)
	}

	a, err := Assign(ids, []int{10, 100}, "fixed")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(a.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(a.Columns))
	}
	if a.Columns[0].Name != "group0" || a.Columns[1].Name != "group1" {
		t.Errorf("column names = %s, %s, want group0, group1", a.Columns[0].Name, a.Columns[1].Name)
	}
	for i := range ids {
		if g := a.Columns[0].Groups[i]; g < 0 || g >= 10 {
			t.Fatalf("group0[%d] = %d outside [0, 10)", i, g)
		}
		if g := a.Columns[1].Groups[i]; g < 0 || g >= 100 {
			t.Fatalf("group1[%d] = %d outside [0, 100)", i, g)
		}
	}

	again, err := Assign(ids, []int{10, 100}, "fixed")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if !reflect.DeepEqual(a, again) {
		t.Error("repeated assignment with the same salt differs")
	}
}

func TestAssignEmptySaltIsFreshEveryCall(t *testing.T) {
	ids := []string{"u1", "u2"}

	a, err := Assign(ids, []int{10}, "")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	b, err := Assign(ids, []int{10}, "")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if a.Salt == "" || b.Salt == "" {
		t.Fatal("generated salt is empty")
	}
	if a.Salt == b.Salt {
		t.Error("two auto-salted calls produced the same salt")
	}

	// The generated salt reproduces its own partition.
	again, err := Assign(ids, []int{10}, a.Salt)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if !reflect.DeepEqual(a.Columns, again.Columns) {
		t.Error("reusing the generated salt did not reproduce the partition")
	}
}

func TestAssignDatasetBucketsByUserID(t *testing.T) {
	d := models.Dataset{
		{UserID: "u1"}, {UserID: "u2"}, {UserID: "u1"},
	}

	a, err := AssignDataset(d, []int{10}, "fixed")
	if err != nil {
		t.Fatalf("AssignDataset failed: %v", err)
	}
	groups := a.Columns[0].Groups
	if len(groups) != 3 {
		t.Fatalf("got %d indices, want one per row", len(groups))
	}
	if groups[0] != groups[2] {
		t.Error("rows of the same user landed in different buckets")
	}
	if groups[0] != Index("u1", "fixed", 10) {
		t.Error("AssignDataset disagrees with Index")
	}
}

func TestAssignRejectsBadCounts(t *testing.T) {
	if _, err := Assign([]string{"u1"}, nil, "s"); !errors.Is(err, ErrConfig) {
		t.Errorf("no counts: expected ErrConfig, got %v", err)
	}
	if _, err := Assign([]string{"u1"}, []int{0}, "s"); !errors.Is(err, ErrConfig) {
		t.Errorf("zero count: expected ErrConfig, got %v", err)
	}
	if _, err := Assign([]string{"u1"}, []int{10, -1}, "s"); !errors.Is(err, ErrConfig) {
		t.Errorf("negative count: expected ErrConfig, got %v", err)
	}
}

func TestAssignDistributionIsRoughlyUniform(t *testing.T) {
	const nIDs = 100000
	const nBuckets = 10

	ids := make([]string, nIDs)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d", i)
	}

	a, err := Assign(ids, []int{nBuckets}, "uniformity-salt")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	counts := make([]int, nBuckets)
	for _, g := range a.Columns[0].Groups {
		counts[g]++
	}

	// Chi-square goodness of fit against the uniform distribution. The input
	// is fixed, so this is deterministic, not flaky.
	expected := float64(nIDs) / nBuckets
	chi2 := 0.0
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}

	critical := distuv.ChiSquared{K: nBuckets - 1}.Quantile(0.999)
	if chi2 > critical {
		t.Errorf("chi-square = %v exceeds critical value %v; counts = %v", chi2, critical, counts)
	}
}

func TestAssignPartitionsAreIndependentAcrossSalts(t *testing.T) {
	const nIDs = 20000
	const nBuckets = 10

	ids := make([]string, nIDs)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d", i)
	}

	a, err := Assign(ids, []int{nBuckets}, "salt-a")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	b, err := Assign(ids, []int{nBuckets}, "salt-b")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	agree := 0
	for i := range ids {
		if a.Columns[0].Groups[i] == b.Columns[0].Groups[i] {
			agree++
		}
	}

	// Independent partitions agree on roughly 1/nBuckets of rows.
	fraction := float64(agree) / nIDs
	if fraction > 0.15 {
		t.Errorf("partitions under different salts agree on %.1f%% of rows, want ~10%%", fraction*100)
	}
}
