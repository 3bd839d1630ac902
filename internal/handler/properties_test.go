package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/yourorg/freehold/internal/domain/mocks"
	"github.com/yourorg/freehold/internal/identity"
)

func TestCreatePropertyEndpoint(t *testing.T) {
	store := mocks.NewMemStore()
	landlord := store.SeedLandlord("owner@example.com")

	verifier := &stubVerifier{tokens: map[string]*identity.Claims{
		"landlord-token": {UID: "uid-1", Email: landlord.Email, Landlord: true},
	}}
	srv := newTestServer(store, verifier)

	rec := doJSON(t, srv, http.MethodPost, "/api/properties", "landlord-token", CreatePropertyRequest{
		Name:   "Maple House",
		Street: "12 Maple Ave",
		City:   "Springfield",
		State:  "IL",
		Zip:    "62701",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PropertyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "vacant" {
		t.Errorf("expected new property to be vacant, got %q", resp.Status)
	}
	if resp.LandlordID != landlord.ID {
		t.Errorf("expected landlordId %d, got %d", landlord.ID, resp.LandlordID)
	}
}

func TestCreatePropertyEndpointMissingFields(t *testing.T) {
	store := mocks.NewMemStore()
	landlord := store.SeedLandlord("owner@example.com")

	verifier := &stubVerifier{tokens: map[string]*identity.Claims{
		"landlord-token": {UID: "uid-1", Email: landlord.Email, Landlord: true},
	}}
	srv := newTestServer(store, verifier)

	rec := doJSON(t, srv, http.MethodPost, "/api/properties", "landlord-token", CreatePropertyRequest{Name: "No Address"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "street and city are required" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestGetPropertyEndpointCrossLandlord(t *testing.T) {
	store := mocks.NewMemStore()
	landlord := store.SeedLandlord("owner@example.com")
	other := store.SeedLandlord("other@example.com")
	property := store.SeedProperty(other.ID)

	verifier := &stubVerifier{tokens: map[string]*identity.Claims{
		"landlord-token": {UID: "uid-1", Email: landlord.Email, Landlord: true},
	}}
	srv := newTestServer(store, verifier)

	rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/properties/%d", property.ID), "landlord-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Not authorized to view another landlords property" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestListPropertiesEndpoint(t *testing.T) {
	store := mocks.NewMemStore()
	landlord := store.SeedLandlord("owner@example.com")
	other := store.SeedLandlord("other@example.com")
	store.SeedProperty(landlord.ID)
	store.SeedProperty(other.ID)

	verifier := &stubVerifier{tokens: map[string]*identity.Claims{
		"landlord-token": {UID: "uid-1", Email: landlord.Email, Landlord: true},
	}}
	srv := newTestServer(store, verifier)

	rec := doJSON(t, srv, http.MethodGet, "/api/properties", "landlord-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var properties []PropertyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &properties); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(properties))
	}
	if properties[0].LandlordID != landlord.ID {
		t.Errorf("property does not belong to the caller")
	}
}
