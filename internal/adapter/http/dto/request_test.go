package dto

import "testing"

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{LoginID: "admin", Password: "secret"}, false},
		{"blank login id", LoginRequest{LoginID: "  ", Password: "secret"}, true},
		{"missing password", LoginRequest{LoginID: "admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginRequestToCredentials(t *testing.T) {
	req := LoginRequest{LoginID: " admin ", Password: " secret ", RememberMe: true}

	creds := req.ToCredentials()

	if creds.LoginID != "admin" {
		t.Fatalf("expected trimmed login id, got %q", creds.LoginID)
	}
	if creds.Password != " secret " {
		t.Fatalf("password must be passed through untouched, got %q", creds.Password)
	}
	if !creds.RememberMe {
		t.Fatalf("expected remember me to be kept")
	}
}
