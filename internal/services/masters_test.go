package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/embedded-iot/unified-be/internal/repository"
)

func newMasterFixture() (*MasterService, *fakeMasters) {
	masters := newFakeMasters()
	svc := NewMasterService(masters)
	svc.now = fixedClock(t0)
	return svc, masters
}

func TestMasterService_CreateDuplicate(t *testing.T) {
	svc, masters := newMasterFixture()
	ctx := context.Background()

	original, err := svc.Create(ctx, ownerID, CreateMasterInput{MasterKey: "plant-a", Name: "Plant A", Description: "north"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Create(ctx, primitive.NewObjectID(), CreateMasterInput{MasterKey: " plant-a", Name: "Other"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := svc.Get(ctx, original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Plant A" || got.Description != "north" || got.User != ownerID {
		t.Errorf("existing master modified: %+v", got)
	}
	if masters.len() != 1 {
		t.Errorf("store holds %d masters, want 1", masters.len())
	}
}

func TestMasterService_CreateLosesRace(t *testing.T) {
	svc, masters := newMasterFixture()
	masters.insertErr = fmt.Errorf("insert into masters: %w", repository.ErrDuplicateKey)

	_, err := svc.Create(context.Background(), ownerID, CreateMasterInput{MasterKey: "plant-a", Name: "Plant A"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestMasterService_CreateValidation(t *testing.T) {
	svc, _ := newMasterFixture()
	for _, in := range []CreateMasterInput{
		{Name: "no key"},
		{MasterKey: "no-name", Name: "   "},
	} {
		if _, err := svc.Create(context.Background(), ownerID, in); !errors.Is(err, ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestMasterService_ListOwned(t *testing.T) {
	svc, _ := newMasterFixture()
	ctx := context.Background()
	other := primitive.NewObjectID()

	for i, user := range []primitive.ObjectID{ownerID, other, ownerID} {
		if _, err := svc.Create(ctx, user, CreateMasterInput{MasterKey: fmt.Sprintf("m-%d", i), Name: "M"}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.List(ctx, ownerID, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalResults != 2 || page.Results[0].MasterKey != "m-2" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestMasterService_UpdateAndDelete(t *testing.T) {
	svc, _ := newMasterFixture()
	ctx := context.Background()

	master, err := svc.Create(ctx, ownerID, CreateMasterInput{MasterKey: "plant-a", Name: "Plant A", Description: "north"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, ownerID, master.ID, MasterPatch{MasterKey: strPtr("plant-a"), Name: strPtr(" Plant A1 ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Plant A1" || updated.Description != "north" || updated.MasterKey != "plant-a" {
		t.Errorf("unexpected master: %+v", updated)
	}

	tests := []struct {
		name  string
		user  primitive.ObjectID
		id    primitive.ObjectID
		patch MasterPatch
		kind  error
	}{
		{"empty patch", ownerID, master.ID, MasterPatch{}, ErrValidation},
		{"key change", ownerID, master.ID, MasterPatch{MasterKey: strPtr("plant-b")}, ErrValidation},
		{"blank name", ownerID, master.ID, MasterPatch{Name: strPtr("")}, ErrValidation},
		{"not owner", primitive.NewObjectID(), master.ID, MasterPatch{Name: strPtr("x")}, ErrForbidden},
		{"missing", ownerID, primitive.NewObjectID(), MasterPatch{Name: strPtr("x")}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, tt.user, tt.id, tt.patch); !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}

	if err := svc.Delete(ctx, primitive.NewObjectID(), master.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete by stranger: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, ownerID, master.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, master.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPageRequestBounds(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		wantErr     bool
	}{
		{"defaults", 0, 0, false},
		{"largest limit", 1, 1000, false},
		{"limit over the cap", 1, 1001, true},
		{"negative page", -1, 10, true},
		{"last page that fits", math.MaxInt64/10 + 1, 10, false},
		{"page past the skip range", math.MaxInt64, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pageRequest(tt.page, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pageRequest(%d, %d) error = %v, wantErr %v", tt.page, tt.limit, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}
