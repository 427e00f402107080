package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKeyPrecedence(t *testing.T) {
	assert.Equal(t, "a@b.c", (&User{Email: "a@b.c", ID: "1", Username: "ana"}).IdentityKey())
	assert.Equal(t, "1", (&User{ID: "1", Username: "ana"}).IdentityKey())
	assert.Equal(t, "ana", (&User{Username: "ana"}).IdentityKey())
	assert.Equal(t, "guest", (*User)(nil).IdentityKey())
}

func TestDisplayNameAndInitials(t *testing.T) {
	u := &User{Username: "ana", FullName: "  Ana maria Lopez "}
	assert.Equal(t, "Ana maria Lopez", u.DisplayName())
	assert.Equal(t, "AM", u.Initials())

	u = &User{Username: "bo"}
	assert.Equal(t, "bo", u.DisplayName())
	assert.Equal(t, "B", u.Initials())
}

func TestValidateRecords(t *testing.T) {
	ok := Expense{ID: "e1", Date: "2026-10-14", Name: "Lunch", Type: "Food", Amount: 12.5}
	assert.NoError(t, Validate(ok))

	bad := ok
	bad.Amount = 0
	assert.Error(t, Validate(bad))

	goal := Goal{ID: "g1", Title: "Read", TargetValue: -1, Category: Study}
	assert.Error(t, Validate(goal))

	note := Note{ID: "n1", Protect: true}
	assert.Error(t, Validate(note))
	note.Password = "pw"
	assert.NoError(t, Validate(note))

	rem := Reminder{ID: "r1", Text: "call", Type: ReminderPlain, Date: "2026-10-14", Time: "25:00"}
	assert.Error(t, Validate(rem))
}

func TestParseEnums(t *testing.T) {
	assert.Equal(t, Birthday, ParseReminderType("BIRTHDAY"))
	assert.Equal(t, ReminderPlain, ParseReminderType(""))
	assert.Equal(t, Health, ParseGoalCategory("health"))
	assert.Equal(t, Productivity, ParseGoalCategory("nope"))
	assert.Equal(t, ExpenseType("Bills"), ParseExpenseType("bills"))
	assert.Equal(t, ExpenseType("Food"), ParseExpenseType(""))
}
