package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/model"
)

func TestCanModifyContract(t *testing.T) {
	owner := uuid.New()
	companyID := uuid.New()
	contract := &model.Contract{UserID: owner, CompanyID: companyID}

	t.Run("assigned user allowed", func(t *testing.T) {
		actor := auth.Identity{UserID: owner, CompanyID: companyID}
		assert.Equal(t, DecisionAllowed, CanModifyContract(actor, contract))
	})

	t.Run("other user forbidden", func(t *testing.T) {
		actor := auth.Identity{UserID: uuid.New(), CompanyID: companyID}
		assert.Equal(t, DecisionForbidden, CanModifyContract(actor, contract))
	})

	t.Run("admin does not bypass ownership", func(t *testing.T) {
		actor := auth.Identity{UserID: uuid.New(), CompanyID: companyID, IsAdmin: true}
		assert.Equal(t, DecisionForbidden, CanModifyContract(actor, contract))
	})
}
