package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

func TestExistingAccountEmailStopsLookup(t *testing.T) {
	repo := newFakeCustomerRepo(confirmedCustomer("cust-1", "jane@example.com"))
	checker := NewAccountChecker(repo)

	customer, err := checker.ExistingAccount(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("ExistingAccount returned error: %v", err)
	}
	if customer.ID != "cust-1" {
		t.Fatalf("expected cust-1, got %s", customer.ID)
	}

	if !reflect.DeepEqual(repo.lookupCalls, []string{"email"}) {
		t.Fatalf("email hit must stop the sequence, got calls %v", repo.lookupCalls)
	}
}

func TestExistingAccountFallsBackInOrder(t *testing.T) {
	owner := confirmedCustomer("cust-1", "jane@example.com")
	owner.Phone = strptr("0155555555")

	repo := newFakeCustomerRepo(owner)
	checker := NewAccountChecker(repo)

	customer, err := checker.ExistingAccount(context.Background(), "0155555555")
	if err != nil {
		t.Fatalf("ExistingAccount returned error: %v", err)
	}
	if customer.ID != "cust-1" {
		t.Fatalf("expected cust-1, got %s", customer.ID)
	}

	want := []string{"email", "cellphone", "phone"}
	if !reflect.DeepEqual(repo.lookupCalls, want) {
		t.Fatalf("expected lookup order %v, got %v", want, repo.lookupCalls)
	}
}

func TestExistingAccountCellphoneBeforePhone(t *testing.T) {
	byCell := confirmedCustomer("cust-cell", "jane@example.com")
	byCell.Cellphone = strptr("0612345678")
	byPhone := confirmedCustomer("cust-phone", "john@example.com")
	byPhone.Phone = strptr("0612345678")

	repo := newFakeCustomerRepo(byCell, byPhone)
	checker := NewAccountChecker(repo)

	customer, err := checker.ExistingAccount(context.Background(), "0612345678")
	if err != nil {
		t.Fatalf("ExistingAccount returned error: %v", err)
	}
	if customer.ID != "cust-cell" {
		t.Fatalf("cellphone match must win before phone, got %s", customer.ID)
	}
}

func TestExistingAccountNotFound(t *testing.T) {
	repo := newFakeCustomerRepo()
	checker := NewAccountChecker(repo)

	if _, err := checker.ExistingAccount(context.Background(), "0612345678"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected repository.ErrNotFound, got %v", err)
	}
}

func TestExistingAccountBlankIdentifier(t *testing.T) {
	checker := NewAccountChecker(newFakeCustomerRepo())

	if _, err := checker.ExistingAccount(context.Background(), ""); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}
}
