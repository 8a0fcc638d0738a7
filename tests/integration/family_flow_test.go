package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// addCustodialMember creates a family and a custodial member through the
// API, returning the member's ID.
func (app *testApp) addCustodialMember(t *testing.T, token, memberName string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/families", `{"name":"The Tests"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create family failed: %d %s", rec.Code, rec.Body.String())
	}
	familyID := parseJSON(t, rec)["family"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", fmt.Sprintf("/api/v1/families/%s/members", familyID),
		fmt.Sprintf(`{"name":%q,"custodial":true}`, memberName), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add member failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["member"].(map[string]interface{})["id"].(string)
}

func TestFamilyFlow_CustodialBudget(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "guardian@test.com", "password123")
	bookID := app.createBook(t, token, "Family Book")
	memberID := app.addCustodialMember(t, token, "Kid")

	// The guardian configures a budget for the custodial member
	rec := app.request("POST", fmt.Sprintf("/api/v1/books/%s/budgets", bookID),
		fmt.Sprintf(`{"family_member_id":%q,"period_kind":"monthly","refresh_day":1,"base_amount":5000,"rollover_enabled":true}`, memberID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	p := parseJSON(t, rec)["period"].(map[string]interface{})
	if p["owner_id"] != memberID {
		t.Errorf("expected period owned by the member, got %v", p["owner_id"])
	}
	if p["owner_kind"] != "custodial" {
		t.Errorf("expected custodial owner kind, got %v", p["owner_kind"])
	}

	// Guardian books pocket money spend for the member
	rec = app.request("POST", fmt.Sprintf("/api/v1/books/%s/transactions", bookID),
		fmt.Sprintf(`{"family_member_id":%q,"type":"expense","amount":1200,"description":"pocket money","date":%q}`,
			memberID, time.Now().Format(time.RFC3339)), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The member's slot counts only the member's spend
	rec = app.request("GET",
		fmt.Sprintf("/api/v1/books/%s/budgets/periods?family_member_id=%s", bookID, memberID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	figures := parseJSON(t, rec)["data"].([]interface{})[0].(map[string]interface{})
	if figures["spent_amount"].(float64) != 1200 {
		t.Errorf("expected 1200 spent, got %v", figures["spent_amount"])
	}
}

func TestFamilyFlow_ForeignGuardianRejected(t *testing.T) {
	app := setupApp(t)
	guardianToken, _, _ := app.registerUser(t, "realguardian@test.com", "password123")
	memberID := app.addCustodialMember(t, guardianToken, "Kid")

	strangerToken, _, _ := app.registerUser(t, "stranger@test.com", "password123")
	strangerBook := app.createBook(t, strangerToken, "Stranger Book")

	// A stranger cannot budget for someone else's custodial member
	rec := app.request("POST", fmt.Sprintf("/api/v1/books/%s/budgets", strangerBook),
		fmt.Sprintf(`{"family_member_id":%q,"period_kind":"monthly","refresh_day":1,"base_amount":5000}`, memberID), strangerToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign member, got %d: %s", rec.Code, rec.Body.String())
	}
}
