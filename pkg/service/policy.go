package service

import (
	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/model"
)

type Decision int

const (
	DecisionAllowed Decision = iota
	DecisionForbidden
)

// CanModifyContract is the single ownership predicate for contract
// mutations. Only the assigned salesperson may touch a contract; being a
// tenant admin grants nothing here.
func CanModifyContract(actor auth.Identity, contract *model.Contract) Decision {
	if contract.UserID == actor.UserID {
		return DecisionAllowed
	}
	return DecisionForbidden
}
