package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/calculator"
	"github.com/shivarya/splitcash/internal/mail"
	"github.com/shivarya/splitcash/internal/models"
	"github.com/shivarya/splitcash/internal/storage/sqlite"
)

// capturedMail records published jobs instead of talking to a broker.
type capturedMail struct {
	jobs []*mail.Job
}

func (m *capturedMail) Publish(_ context.Context, job *mail.Job) error {
	m.jobs = append(m.jobs, job)
	return nil
}

type testEnv struct {
	store    *sqlite.Store
	groups   *GroupService
	expenses *ExpenseService
	balances *BalanceService
	mailer   *capturedMail
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitcash-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mailer := &capturedMail{}
	return &testEnv{
		store:    store,
		groups:   NewGroupService(store, mailer, "https://splitcash.test"),
		expenses: NewExpenseService(store),
		balances: NewBalanceService(store),
		mailer:   mailer,
	}
}

func (e *testEnv) user(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: name}
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func (e *testEnv) groupWith(t *testing.T, creator *models.User, members ...*models.User) *models.Group {
	t.Helper()
	group, err := e.groups.Create(context.Background(), creator.ID, CreateGroupInput{Name: "Test Group"})
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	for _, m := range members {
		if err := e.store.AddMember(context.Background(), group.ID, m.ID, ""); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}
	return group
}

func TestGroupService(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires a name", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")

		_, err := env.groups.Create(ctx, alice.ID, CreateGroupInput{Name: "   "})
		if !apperr.IsValidation(err) {
			t.Errorf("error = %v, want validation", err)
		}
	})

	t.Run("get rejects non-members", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		mallory := env.user(t, "mallory@example.com", "Mallory")
		group := env.groupWith(t, alice)

		_, err := env.groups.Get(ctx, mallory.ID, group.ID)
		if !apperr.IsAuthorization(err) {
			t.Errorf("error = %v, want authorization", err)
		}
	})

	t.Run("get returns members", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		got, err := env.groups.Get(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("got %d members, want 2", len(got.Members))
		}
	})

	t.Run("missing group is not found", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")

		_, err := env.groups.Get(ctx, alice.ID, "nope")
		if !apperr.IsNotFound(err) {
			t.Errorf("error = %v, want not found", err)
		}
	})

	t.Run("invite enqueues mail and accept joins", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		eve := env.user(t, "eve@example.com", "Eve")
		group := env.groupWith(t, alice)

		invitations, err := env.groups.Invite(ctx, alice.ID, group.ID, []string{"Eve@Example.com"})
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if len(invitations) != 1 {
			t.Fatalf("got %d invitations, want 1", len(invitations))
		}
		if len(env.mailer.jobs) != 1 || env.mailer.jobs[0].Kind != mail.JobInvitation {
			t.Fatalf("expected one invitation mail, got %+v", env.mailer.jobs)
		}
		if env.mailer.jobs[0].To != "eve@example.com" {
			t.Errorf("mail to %s, want eve@example.com", env.mailer.jobs[0].To)
		}

		joined, err := env.groups.AcceptInvitation(ctx, eve.ID, invitations[0].Token)
		if err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
		if joined.ID != group.ID {
			t.Errorf("joined group %s, want %s", joined.ID, group.ID)
		}

		// Token is single-use.
		if _, err := env.groups.AcceptInvitation(ctx, eve.ID, invitations[0].Token); !apperr.IsNotFound(err) {
			t.Errorf("error = %v, want not found for reused token", err)
		}

		activities, err := env.balances.Activity(ctx, alice.ID, group.ID, 0)
		if err != nil {
			t.Fatalf("Activity failed: %v", err)
		}
		if len(activities) != 1 || activities[0].Action != models.ActionJoinGroup {
			t.Errorf("join activity missing: %+v", activities)
		}
	})

	t.Run("invite skips existing members", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		invitations, err := env.groups.Invite(ctx, alice.ID, group.ID, []string{"bob@example.com"})
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if len(invitations) != 0 {
			t.Errorf("got %d invitations, want 0", len(invitations))
		}
	})

	t.Run("invite rejects bad addresses", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		group := env.groupWith(t, alice)

		_, err := env.groups.Invite(ctx, alice.ID, group.ID, []string{"not-an-email"})
		if !apperr.IsValidation(err) {
			t.Errorf("error = %v, want validation", err)
		}
	})
}

func TestExpenseService(t *testing.T) {
	ctx := context.Background()

	t.Run("equal split across all members", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		carol := env.user(t, "carol@example.com", "Carol")
		group := env.groupWith(t, alice, bob, carol)

		expense, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Dinner",
			Amount:      90,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if expense.SplitType != models.SplitEqual {
			t.Errorf("split type = %s, want equal", expense.SplitType)
		}
		if len(expense.Splits) != 3 {
			t.Fatalf("got %d splits, want 3", len(expense.Splits))
		}
		for _, split := range expense.Splits {
			if split.Amount != 30 {
				t.Errorf("split amount = %v, want 30", split.Amount)
			}
		}
	})

	t.Run("percentage split", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		expense, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Rent",
			Amount:      1000,
			SplitType:   models.SplitPercentage,
			Splits: []calculator.ShareInput{
				{UserID: alice.ID, Percentage: 60},
				{UserID: bob.ID, Percentage: 40},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if expense.Splits[0].Amount != 600 || expense.Splits[1].Amount != 400 {
			t.Errorf("split amounts = %v/%v, want 600/400", expense.Splits[0].Amount, expense.Splits[1].Amount)
		}
	})

	t.Run("unequal split must sum to amount", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		_, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Groceries",
			Amount:      100,
			SplitType:   models.SplitUnequal,
			Splits: []calculator.ShareInput{
				{UserID: alice.ID, Amount: 40},
				{UserID: bob.ID, Amount: 65},
			},
		})
		if !apperr.IsValidation(err) {
			t.Errorf("error = %v, want validation", err)
		}
	})

	t.Run("split user outside the group is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		outsider := env.user(t, "zed@example.com", "Zed")
		group := env.groupWith(t, alice)

		_, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Taxi",
			Amount:      20,
			SplitType:   models.SplitUnequal,
			Splits: []calculator.ShareInput{
				{UserID: outsider.ID, Amount: 20},
			},
		})
		if !apperr.IsValidation(err) {
			t.Errorf("error = %v, want validation", err)
		}
	})

	t.Run("only the payer can edit", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		expense, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Fuel",
			Amount:      50,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		newAmount := 80.0
		_, err = env.expenses.Update(ctx, bob.ID, expense.ID, UpdateExpenseInput{Amount: &newAmount})
		if !apperr.IsAuthorization(err) {
			t.Errorf("error = %v, want authorization", err)
		}
	})

	t.Run("edit keeps splits as recorded", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		expense, err := env.expenses.Create(ctx, alice.ID, group.ID, CreateExpenseInput{
			Description: "Hotel",
			Amount:      200,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		newAmount := 300.0
		updated, err := env.expenses.Update(ctx, alice.ID, expense.ID, UpdateExpenseInput{Amount: &newAmount})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Amount != 300 {
			t.Errorf("amount = %v, want 300", updated.Amount)
		}
		for _, split := range updated.Splits {
			if split.Amount != 100 {
				t.Errorf("split amount = %v, want 100 (original)", split.Amount)
			}
		}
	})

	t.Run("admin can delete another member's expense", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		group := env.groupWith(t, alice, bob)

		expense, err := env.expenses.Create(ctx, bob.ID, group.ID, CreateExpenseInput{
			Description: "Snacks",
			Amount:      15,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		// Alice is the group admin.
		if err := env.expenses.Delete(ctx, alice.ID, expense.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := env.expenses.Get(ctx, alice.ID, expense.ID); !apperr.IsNotFound(err) {
			t.Errorf("error = %v, want not found after delete", err)
		}
	})

	t.Run("plain member cannot delete another member's expense", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		carol := env.user(t, "carol@example.com", "Carol")
		group := env.groupWith(t, alice, bob, carol)

		expense, err := env.expenses.Create(ctx, bob.ID, group.ID, CreateExpenseInput{
			Description: "Coffee",
			Amount:      8,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := env.expenses.Delete(ctx, carol.ID, expense.ID); !apperr.IsAuthorization(err) {
			t.Errorf("error = %v, want authorization", err)
		}
	})
}

func TestBalanceService(t *testing.T) {
	ctx := context.Background()

	// Seed the worked scenario: Alice pays 90 split three ways, Bob pays
	// 30 split three ways.
	seed := func(t *testing.T) (*testEnv, *models.User, *models.User, *models.User, *models.Group) {
		env := newTestEnv(t)
		alice := env.user(t, "alice@example.com", "Alice")
		bob := env.user(t, "bob@example.com", "Bob")
		carol := env.user(t, "carol@example.com", "Carol")
		group := env.groupWith(t, alice, bob, carol)

		for _, exp := range []struct {
			payer  string
			amount float64
			desc   string
		}{
			{alice.ID, 90, "Dinner"},
			{bob.ID, 30, "Taxi"},
		} {
			_, err := env.expenses.Create(ctx, exp.payer, group.ID, CreateExpenseInput{
				Description: exp.desc,
				Amount:      exp.amount,
				PaidBy:      exp.payer,
			})
			if err != nil {
				t.Fatalf("Create(%s) failed: %v", exp.desc, err)
			}
		}
		return env, alice, bob, carol, group
	}

	t.Run("group balances sorted creditor first", func(t *testing.T) {
		env, alice, bob, carol, group := seed(t)

		balances, err := env.balances.GroupBalances(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		if len(balances) != 3 {
			t.Fatalf("got %d balances, want 3", len(balances))
		}

		// Alice: paid 90, owes 40 -> +50. Bob: paid 30, owes 40 -> -10.
		// Carol: paid 0, owes 40 -> -40.
		want := []struct {
			userID string
			net    float64
		}{
			{alice.ID, 50},
			{bob.ID, -10},
			{carol.ID, -40},
		}
		for i, w := range want {
			if balances[i].UserID != w.userID || balances[i].NetBalance != w.net {
				t.Errorf("balances[%d] = %s/%v, want %s/%v",
					i, balances[i].UserID, balances[i].NetBalance, w.userID, w.net)
			}
		}
	})

	t.Run("suggestions settle the group", func(t *testing.T) {
		env, alice, _, _, group := seed(t)

		suggestions, err := env.balances.Suggestions(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("Suggestions failed: %v", err)
		}
		if len(suggestions) != 2 {
			t.Fatalf("got %d suggestions, want 2: %+v", len(suggestions), suggestions)
		}

		// Bob owes 10, Carol owes 40, all to Alice.
		total := 0.0
		for _, sug := range suggestions {
			if sug.ToUserID != alice.ID {
				t.Errorf("suggestion pays %s, want %s", sug.ToUserID, alice.ID)
			}
			total += sug.Amount
		}
		if total != 50 {
			t.Errorf("suggested total = %v, want 50", total)
		}
	})

	t.Run("recorded settlements leave balances unchanged", func(t *testing.T) {
		env, alice, bob, _, group := seed(t)

		before, err := env.balances.GroupBalances(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}

		_, err = env.balances.RecordSettlement(ctx, bob.ID, group.ID, RecordSettlementInput{
			FromUserID: bob.ID,
			ToUserID:   alice.ID,
			Amount:     10,
			Date:       "2026-02-14",
		})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}

		after, err := env.balances.GroupBalances(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		for i := range before {
			if before[i].NetBalance != after[i].NetBalance {
				t.Errorf("balance for %s changed: %v -> %v",
					before[i].UserID, before[i].NetBalance, after[i].NetBalance)
			}
		}

		history, err := env.balances.History(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) != 1 || history[0].Amount != 10 {
			t.Errorf("history = %+v, want one settlement of 10", history)
		}
	})

	t.Run("settlement validation", func(t *testing.T) {
		env, alice, bob, _, group := seed(t)
		outsider := env.user(t, "zed@example.com", "Zed")

		tests := []struct {
			name   string
			caller string
			input  RecordSettlementInput
		}{
			{
				name:   "non-positive amount",
				caller: alice.ID,
				input:  RecordSettlementInput{FromUserID: bob.ID, ToUserID: alice.ID, Amount: 0, Date: "2026-02-14"},
			},
			{
				name:   "same payer and recipient",
				caller: alice.ID,
				input:  RecordSettlementInput{FromUserID: alice.ID, ToUserID: alice.ID, Amount: 5, Date: "2026-02-14"},
			},
			{
				name:   "missing date",
				caller: alice.ID,
				input:  RecordSettlementInput{FromUserID: bob.ID, ToUserID: alice.ID, Amount: 5},
			},
			{
				name:   "recipient outside the group",
				caller: alice.ID,
				input:  RecordSettlementInput{FromUserID: bob.ID, ToUserID: outsider.ID, Amount: 5, Date: "2026-02-14"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.balances.RecordSettlement(ctx, tt.caller, group.ID, tt.input)
				if !apperr.IsValidation(err) {
					t.Errorf("error = %v, want validation", err)
				}
			})
		}

		t.Run("payer outside the group", func(t *testing.T) {
			_, err := env.balances.RecordSettlement(ctx, alice.ID, group.ID, RecordSettlementInput{
				FromUserID: outsider.ID, ToUserID: alice.ID, Amount: 5, Date: "2026-02-14",
			})
			if !apperr.IsAuthorization(err) {
				t.Errorf("error = %v, want authorization", err)
			}
		})

		t.Run("recorder outside the group", func(t *testing.T) {
			_, err := env.balances.RecordSettlement(ctx, outsider.ID, group.ID, RecordSettlementInput{
				FromUserID: bob.ID, ToUserID: alice.ID, Amount: 5, Date: "2026-02-14",
			})
			if !apperr.IsAuthorization(err) {
				t.Errorf("error = %v, want authorization", err)
			}
		})
	})

	t.Run("my balances summarize each group", func(t *testing.T) {
		env, alice, _, _, group := seed(t)

		balances, err := env.balances.MyBalances(ctx, alice.ID)
		if err != nil {
			t.Fatalf("MyBalances failed: %v", err)
		}
		if len(balances) != 1 {
			t.Fatalf("got %d groups, want 1", len(balances))
		}
		entry := balances[0]
		if entry.GroupID != group.ID || entry.Balance != 50 || entry.MemberCount != 3 {
			t.Errorf("entry = %+v, want group %s with balance 50 and 3 members", entry, group.ID)
		}
	})

	t.Run("activity feed honors limit", func(t *testing.T) {
		env, alice, _, _, group := seed(t)

		activities, err := env.balances.Activity(ctx, alice.ID, group.ID, 1)
		if err != nil {
			t.Fatalf("Activity failed: %v", err)
		}
		if len(activities) != 1 {
			t.Errorf("got %d activities, want 1", len(activities))
		}

		all, err := env.balances.Activity(ctx, alice.ID, group.ID, 0)
		if err != nil {
			t.Fatalf("Activity failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("got %d activities, want 2", len(all))
		}
	})
}
