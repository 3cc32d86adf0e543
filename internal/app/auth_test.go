package app

import "testing"

func testApp(secret string, expireMin int) *App {
	return &App{Cfg: Config{JWTSecret: secret, JWTExpireMin: expireMin}, Log: testLogger()}
}

func TestTokenRoundTrip(t *testing.T) {
	a := testApp("test-secret", 60)
	u := &User{ID: "u1", Email: "ana@courtmanager.local", Username: "ana"}

	token, err := a.mintToken(u)
	if err != nil {
		t.Fatalf("mintToken failed: %v", err)
	}
	claims, err := a.parseToken(token)
	if err != nil {
		t.Fatalf("parseToken failed: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != u.Email || claims.Username != "ana" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	a := testApp("secret-a", 60)
	token, err := a.mintToken(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("mintToken failed: %v", err)
	}
	if _, err := testApp("secret-b", 60).parseToken(token); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}

func TestParseTokenExpired(t *testing.T) {
	a := testApp("test-secret", -10)
	token, err := a.mintToken(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("mintToken failed: %v", err)
	}
	if _, err := a.parseToken(token); err == nil {
		t.Fatal("expired token must not validate")
	}
}
