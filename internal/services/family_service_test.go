package services

import (
	"testing"

	"tallybook/internal/models"
	"tallybook/internal/testutil"
)

func TestAddMember(t *testing.T) {
	t.Run("custodial member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)

		family, err := svc.CreateFamily(user.ID, "Smiths")
		testutil.AssertNoError(t, err)

		member, err := svc.AddMember(user.ID, family.ID, "Kid", true)
		testutil.AssertNoError(t, err)
		if !member.IsCustodial {
			t.Error("expected custodial member")
		}
		if member.GuardianID != user.ID {
			t.Errorf("expected guardian %s, got %s", user.ID, member.GuardianID)
		}
	})

	t.Run("foreign family", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, other.ID)

		_, err := svc.AddMember(user.ID, family.ID, "Kid", true)
		testutil.AssertAppError(t, err, "FAMILY_NOT_FOUND")
	})
}

func TestResolveOwner(t *testing.T) {
	t.Run("self booking", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)

		ownerID, kind, err := svc.ResolveOwner(user.ID, nil)
		testutil.AssertNoError(t, err)
		if ownerID != user.ID || kind != models.OwnerKindAccount {
			t.Errorf("expected account owner %s, got %s (%s)", user.ID, ownerID, kind)
		}
	})

	t.Run("custodial booking routes to the member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, user.ID)
		member := testutil.CreateTestCustodialMember(t, db, family.ID, user.ID)

		ownerID, kind, err := svc.ResolveOwner(user.ID, &member.ID)
		testutil.AssertNoError(t, err)
		if ownerID != member.ID || kind != models.OwnerKindCustodial {
			t.Errorf("expected custodial owner %s, got %s (%s)", member.ID, ownerID, kind)
		}
	})

	t.Run("non-custodial member cannot be booked for", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, user.ID)

		member := &models.FamilyMember{
			FamilyID:   family.ID,
			GuardianID: user.ID,
			Name:       "Adult",
		}
		testutil.AssertNoError(t, db.Create(member).Error)

		_, _, err := svc.ResolveOwner(user.ID, &member.ID)
		testutil.AssertAppError(t, err, "NOT_CUSTODIAL")
	})

	t.Run("member guarded by someone else", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFamilyService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, other.ID)
		member := testutil.CreateTestCustodialMember(t, db, family.ID, other.ID)

		_, _, err := svc.ResolveOwner(user.ID, &member.ID)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}
