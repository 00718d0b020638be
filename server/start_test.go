package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"heroes-service/auth"
)

func TestBearerCheckAcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	check := newBearerCheck(tokens)

	token, err := tokens.Issue("peter")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest("POST", "/powers", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	ok, reqAuth := check(req)
	if !ok {
		t.Fatal("Expected valid token to pass the bearer check")
	}
	if reqAuth.Type != "bearer" || reqAuth.Client != "peter" {
		t.Errorf("Unexpected request auth: %+v", reqAuth)
	}
	claims, _ := reqAuth.Claims.(map[string]interface{})
	if sub, _ := claims["sub"].(string); sub != "peter" {
		t.Errorf("Expected sub claim peter, got %v", claims["sub"])
	}
}

func TestBearerCheckRejectsBadRequests(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	check := newBearerCheck(tokens)

	otherIssuer := auth.NewTokenIssuer("other-secret", time.Hour)
	foreign, err := otherIssuer.Issue("peter")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic cGV0ZXI6cGFzcw==",
		"garbage token":  "Bearer not-a-jwt",
		"wrong secret":   "Bearer " + foreign,
	}

	for name, header := range cases {
		req := httptest.NewRequest("POST", "/powers", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if ok, _ := check(req); ok {
			t.Errorf("%s: expected the bearer check to fail", name)
		}
	}
}
