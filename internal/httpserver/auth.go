package httpserver

import (
	"canteen-ordering/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// StaffAuth maps an X-Staff-Key header to an actor by comparing it with bcrypt hashes.
type StaffAuth struct {
	adminHash []byte
	staffHash []byte
}

// NewStaffAuth accepts bcrypt hashes of the admin and staff keys. An empty hash disables that role.
func NewStaffAuth(adminHash, staffHash string) *StaffAuth {
	return &StaffAuth{adminHash: []byte(adminHash), staffHash: []byte(staffHash)}
}

// Resolve returns the customer actor for an empty key and ErrForbidden for an unknown one.
func (a *StaffAuth) Resolve(key string) (domain.Actor, error) {
	if key == "" {
		return domain.Actor{Role: domain.RoleCustomer}, nil
	}
	if matches(a.adminHash, key) {
		return domain.Actor{Role: domain.RoleAdmin}, nil
	}
	if matches(a.staffHash, key) {
		return domain.Actor{Role: domain.RoleStaff}, nil
	}
	return domain.Actor{}, domain.ErrForbidden
}

func matches(hash []byte, key string) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil
}
