package service

import (
	"errors"
	"testing"
	"time"

	"github.com/volumescan/internal/models"
	"github.com/volumescan/internal/repository"
)

func TestVolumeServiceAddAndList(t *testing.T) {
	fx := newServiceFixture(t)
	fixed := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.FixedZone("BRT", -3*3600))
	fx.volumes.now = func() time.Time { return fixed }

	volume, err := fx.volumes.Add(AddVolumeInput{Barcode: " ABC123 ", BranchID: "BR1", OrderID: "O1", VolumeID: "V1"})
	if err != nil {
		t.Fatalf("add volume failed: %v", err)
	}
	if volume.ID == 0 {
		t.Fatalf("volume id should be assigned")
	}
	if volume.Barcode != "ABC123" {
		t.Fatalf("barcode should be trimmed, got %q", volume.Barcode)
	}
	wantScannedAt := time.Date(2026, 3, 1, 15, 30, 0, 123457000, time.UTC)
	if !volume.ScannedAt.Equal(wantScannedAt) || volume.ScannedAt.Location() != time.UTC {
		t.Fatalf("scanned_at want %v got %v", wantScannedAt, volume.ScannedAt)
	}

	volumes, err := fx.volumes.List()
	if err != nil {
		t.Fatalf("list volumes failed: %v", err)
	}
	if len(volumes) != 1 || volumes[0].Barcode != "ABC123" || volumes[0].BranchID != "BR1" {
		t.Fatalf("unexpected volumes: %+v", volumes)
	}
}

func TestVolumeServiceAddRejectsDuplicate(t *testing.T) {
	fx := newServiceFixture(t)
	first := mustAddVolume(t, fx.volumes, "ABC123", "BR1")

	_, err := fx.volumes.Add(AddVolumeInput{Barcode: "ABC123", BranchID: "BR2", OrderID: "O9", VolumeID: "V9"})
	if !errors.Is(err, ErrVolumeDuplicate) {
		t.Fatalf("want ErrVolumeDuplicate got %v", err)
	}

	volumes, err := fx.volumes.List()
	if err != nil {
		t.Fatalf("list volumes failed: %v", err)
	}
	if len(volumes) != 1 || volumes[0].ID != first.ID || volumes[0].BranchID != "BR1" {
		t.Fatalf("original volume should be unchanged: %+v", volumes)
	}
}

type staleReadVolumeRepo struct {
	repository.VolumeRepository
}

func (r staleReadVolumeRepo) GetByBarcode(string) (*models.Volume, error) {
	return nil, nil
}

func TestVolumeServiceTranslatesLateUniqueViolation(t *testing.T) {
	fx := newServiceFixture(t)
	mustAddVolume(t, fx.volumes, "RACE1", "BR1")

	racing := NewVolumeService(staleReadVolumeRepo{fx.volumeRep}, fx.totalRep, nil)
	_, err := racing.Add(AddVolumeInput{Barcode: "RACE1", BranchID: "BR1", OrderID: "O2", VolumeID: "V2"})
	if !errors.Is(err, ErrVolumeDuplicate) {
		t.Fatalf("late unique violation should map to ErrVolumeDuplicate, got %v", err)
	}
}

func TestVolumeServiceAddValidatesInput(t *testing.T) {
	fx := newServiceFixture(t)
	cases := []AddVolumeInput{
		{Barcode: "", BranchID: "BR1", OrderID: "O1", VolumeID: "V1"},
		{Barcode: "   ", BranchID: "BR1", OrderID: "O1", VolumeID: "V1"},
		{Barcode: "A1", BranchID: "", OrderID: "O1", VolumeID: "V1"},
		{Barcode: "A1", BranchID: "BR1", OrderID: "", VolumeID: "V1"},
		{Barcode: "A1", BranchID: "BR1", OrderID: "O1", VolumeID: ""},
		{Barcode: "A1", BranchID: "BRANCH-TOO-LONG", OrderID: "O1", VolumeID: "V1"},
		{Barcode: "012345678901234567890123456789012345678901234567890", BranchID: "BR1", OrderID: "O1", VolumeID: "V1"},
	}
	for _, input := range cases {
		if _, err := fx.volumes.Add(input); !errors.Is(err, ErrInvalidVolume) {
			t.Fatalf("input %+v want ErrInvalidVolume got %v", input, err)
		}
	}
}

func TestVolumeServiceDelete(t *testing.T) {
	fx := newServiceFixture(t)
	mustAddVolume(t, fx.volumes, "ABC123", "BR1")
	mustAddVolume(t, fx.volumes, "XYZ789", "BR1")

	if err := fx.volumes.Delete("ABC123"); err != nil {
		t.Fatalf("delete volume failed: %v", err)
	}
	if err := fx.volumes.Delete("ABC123"); !errors.Is(err, ErrVolumeNotFound) {
		t.Fatalf("second delete want ErrVolumeNotFound got %v", err)
	}
	if err := fx.volumes.Delete("NOPE"); !errors.Is(err, ErrVolumeNotFound) {
		t.Fatalf("delete missing want ErrVolumeNotFound got %v", err)
	}

	volumes, err := fx.volumes.List()
	if err != nil {
		t.Fatalf("list volumes failed: %v", err)
	}
	if len(volumes) != 1 || volumes[0].Barcode != "XYZ789" {
		t.Fatalf("unexpected volumes after delete: %+v", volumes)
	}
	// 删除后同一条码可以重新登记
	mustAddVolume(t, fx.volumes, "ABC123", "BR2")
}

func TestScanTimestampNeverPrecedesRequest(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "rounds up", in: time.Date(2026, 3, 1, 12, 0, 0, 1, time.UTC), want: time.Date(2026, 3, 1, 12, 0, 0, 1000, time.UTC)},
		{name: "exact microsecond", in: time.Date(2026, 3, 1, 12, 0, 0, 5000, time.UTC), want: time.Date(2026, 3, 1, 12, 0, 0, 5000, time.UTC)},
		{name: "carries into second", in: time.Date(2026, 3, 1, 12, 0, 0, 999999999, time.UTC), want: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scanTimestamp(tc.in)
			if !got.Equal(tc.want) || got.Before(tc.in) {
				t.Fatalf("want %v got %v", tc.want, got)
			}
		})
	}
}

func TestVolumeServiceClearAll(t *testing.T) {
	fx := newServiceFixture(t)
	mustAddVolume(t, fx.volumes, "A1", "BR1")
	mustAddVolume(t, fx.volumes, "A2", "BR1")
	mustAddVolume(t, fx.volumes, "B1", "BR2")
	if err := fx.totals.SetTotal("BR1", 20); err != nil {
		t.Fatalf("set total failed: %v", err)
	}
	if err := fx.totals.SetTotal("BR3", 5); err != nil {
		t.Fatalf("set total failed: %v", err)
	}

	if err := fx.volumes.ClearAll(); err != nil {
		t.Fatalf("clear all failed: %v", err)
	}

	volumes, err := fx.volumes.List()
	if err != nil {
		t.Fatalf("list volumes failed: %v", err)
	}
	if len(volumes) != 0 {
		t.Fatalf("volumes should be empty, got %d", len(volumes))
	}
	if _, err := fx.totals.GetTotal("BR1"); !errors.Is(err, ErrBranchTotalNotFound) {
		t.Fatalf("branch totals should be cleared, got %v", err)
	}

	if len(fx.notifier.payloads) != 1 {
		t.Fatalf("want one session snapshot, got %d", len(fx.notifier.payloads))
	}
	branches := fx.notifier.payloads[0].Branches
	if len(branches) != 3 {
		t.Fatalf("want 3 branches in snapshot, got %+v", branches)
	}
	if branches[0].BranchID != "BR1" || branches[0].ScannedVolumes != 2 || branches[0].TotalVolumes == nil || *branches[0].TotalVolumes != 20 {
		t.Fatalf("unexpected BR1 snapshot: %+v", branches[0])
	}
	if branches[1].BranchID != "BR2" || branches[1].ScannedVolumes != 1 || branches[1].TotalVolumes != nil {
		t.Fatalf("unexpected BR2 snapshot: %+v", branches[1])
	}
	if branches[2].BranchID != "BR3" || branches[2].ScannedVolumes != 0 || *branches[2].TotalVolumes != 5 {
		t.Fatalf("unexpected BR3 snapshot: %+v", branches[2])
	}

	// 空库再次清空仍然成功
	if err := fx.volumes.ClearAll(); err != nil {
		t.Fatalf("clear empty store failed: %v", err)
	}
}

func TestVolumeServiceClearAllIgnoresNotifierFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.notifier.err = errors.New("redis down")
	mustAddVolume(t, fx.volumes, "A1", "BR1")

	if err := fx.volumes.ClearAll(); err != nil {
		t.Fatalf("clear all should succeed when enqueue fails, got %v", err)
	}
	volumes, err := fx.volumes.List()
	if err != nil {
		t.Fatalf("list volumes failed: %v", err)
	}
	if len(volumes) != 0 {
		t.Fatalf("volumes should be cleared")
	}
}

func TestVolumeServiceListByBranch(t *testing.T) {
	fx := newServiceFixture(t)
	mustAddVolume(t, fx.volumes, "A1", "BR1")
	mustAddVolume(t, fx.volumes, "B1", "BR2")
	mustAddVolume(t, fx.volumes, "A2", "BR1")

	volumes, err := fx.volumes.ListByBranch(" BR1 ")
	if err != nil {
		t.Fatalf("list by branch failed: %v", err)
	}
	if len(volumes) != 2 || volumes[0].Barcode != "A1" || volumes[1].Barcode != "A2" {
		t.Fatalf("unexpected branch volumes: %+v", volumes)
	}
}
