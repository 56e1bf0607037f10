package services

import (
	"testing"

	"github.com/renttrust/renttrust/internal/models"
)

func TestPropertyCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	landlord := createTestUser(t, db, "prop-owner", "Owner")
	db.Model(landlord).Update("user_type", models.RoleLandlord)

	property, err := svc.Create(landlord.ID, &CreatePropertyRequest{
		Name:         "Sunny Flat",
		Address:      "12 Elm Street",
		PropertyType: "apartment",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if property.OwnerID != landlord.ID {
		t.Errorf("owner = %d, want %d", property.OwnerID, landlord.ID)
	}
	if !property.IsActive {
		t.Error("new listing should be active")
	}
}

func TestPropertyCreate_TenantRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	tenant := createTestUser(t, db, "prop-tenant", "Tenant")

	if _, err := svc.Create(tenant.ID, &CreatePropertyRequest{Name: "X", Address: "Y"}); err == nil {
		t.Error("tenant must not be able to list properties")
	}

	if _, err := svc.Create(777, &CreatePropertyRequest{Name: "X", Address: "Y"}); err == nil {
		t.Error("missing profile must be rejected")
	}
}

func TestPropertyUpdate_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	owner := createTestUser(t, db, "prop-o", "Owner")
	db.Model(owner).Update("user_type", models.RoleBoth)
	other := createTestUser(t, db, "prop-x", "Someone Else")

	property, err := svc.Create(owner.ID, &CreatePropertyRequest{Name: "Old Name", Address: "1 Main"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "New Name"
	if _, err := svc.Update(other.ID, property.ID, &UpdatePropertyRequest{Name: &name}); err == nil {
		t.Error("non-owner update must be rejected")
	}

	updated, err := svc.Update(owner.ID, property.ID, &UpdatePropertyRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var reloaded models.Property
	db.First(&reloaded, updated.ID)
	if reloaded.Name != "New Name" {
		t.Errorf("name = %q", reloaded.Name)
	}
	// Ownership never changes
	if reloaded.OwnerID != owner.ID {
		t.Errorf("owner changed to %d", reloaded.OwnerID)
	}
}

func TestPropertyListByOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	owner := createTestUser(t, db, "prop-list", "Owner")
	db.Model(owner).Update("user_type", models.RoleLandlord)

	for _, name := range []string{"A", "B"} {
		if _, err := svc.Create(owner.ID, &CreatePropertyRequest{Name: name, Address: name + " street"}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	listings, err := svc.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("listings = %d, want 2", len(listings))
	}
}
