package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"RestaurantPos/app/models"
)

func TestEmployeePINs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.employees.CreateEmployee(ctx, &models.Employee{Name: "Ana", Role: models.RoleAdmin}, "12ab"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("non-numeric PIN: err = %v", err)
	}
	if err := env.employees.CreateEmployee(ctx, &models.Employee{Name: "Ana", Role: "owner"}, "1234"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown role: err = %v", err)
	}

	approvers, err := env.employees.HasDiscountApprovers(ctx)
	if err != nil || approvers {
		t.Fatalf("HasDiscountApprovers = %v, %v on an empty staff", approvers, err)
	}

	admin := models.Employee{Name: "Ana", Role: models.RoleAdmin}
	if err := env.employees.CreateEmployee(ctx, &admin, "4321"); err != nil {
		t.Fatal(err)
	}
	if admin.PIN == "4321" {
		t.Error("PIN stored in clear")
	}

	got, err := env.employees.AuthenticateByPIN(ctx, "4321")
	if err != nil || got.ID != admin.ID {
		t.Fatalf("AuthenticateByPIN = %+v, %v", got, err)
	}
	if _, err := env.employees.AuthorizeDiscount(ctx, "4321"); err != nil {
		t.Errorf("admin cannot authorize: %v", err)
	}

	if err := env.employees.DeactivateEmployee(ctx, admin.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.employees.AuthenticateByPIN(ctx, "4321"); !errors.Is(err, ErrNotFound) {
		t.Errorf("inactive employee authenticated: err = %v", err)
	}
	if err := env.employees.DeactivateEmployee(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown employee: err = %v", err)
	}

	staff, err := env.employees.ListEmployees(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(staff) != 1 {
		t.Errorf("staff = %d, want 1", len(staff))
	}
}

func TestCustomersAndExpenses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Marta", "Pedro"} {
		c := models.Customer{Name: name, Phone: "555-" + name}
		if err := env.customers.CreateCustomer(ctx, &c); err != nil {
			t.Fatal(err)
		}
	}
	found, err := env.customers.ListCustomers(ctx, "Ped")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Name != "Pedro" {
		t.Errorf("search = %+v", found)
	}

	updated, err := env.customers.UpdateCustomer(ctx, found[0].ID, &models.Customer{Name: "Pedro Gil", Email: "pedro@example.com", CreditBalance: dec("99")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Pedro Gil" || !updated.CreditBalance.IsZero() {
		t.Errorf("updated = %+v", updated)
	}

	if err := env.expenses.CreateExpense(ctx, &models.Expense{Description: "Napkins", Amount: dec("0")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero expense: err = %v", err)
	}
	expense := models.Expense{Description: "Napkins", Category: "supplies", Amount: dec("12.40")}
	if err := env.expenses.CreateExpense(ctx, &expense); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	list, err := env.expenses.ListExpenses(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Amount.Equal(dec("12.40")) {
		t.Errorf("expenses = %+v", list)
	}

	if err := env.expenses.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.expenses.DeleteExpense(ctx, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}
