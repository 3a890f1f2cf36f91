package hash

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "SecurePass123!",
			wantErr:  false,
		},
		{
			name:     "short password",
			password: "abc123",
			wantErr:  false,
		},
		{
			name:     "72 byte password",
			password: strings.Repeat("a", 72),
			wantErr:  false,
		},
		{
			name:     "password over 72 bytes",
			password: strings.Repeat("a", 73),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Hash() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Hash() unexpected error = %v", err)
				return
			}

			if hash == tt.password {
				t.Error("Hash() returned unhashed password")
			}

			if !strings.HasPrefix(hash, "$2a$10$") {
				t.Errorf("Hash() invalid bcrypt format, got = %s", hash[:10])
			}
		})
	}
}

func TestHashDifferentOutputs(t *testing.T) {
	password := "SamePassword123!"

	hash1, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	hash2, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() should generate different hashes for same password (salt)")
	}
}

func TestVerify(t *testing.T) {
	password := "MySecurePassword123!"
	hash, err := Hash(password)
	if err != nil {
		t.Fatalf("Failed to generate hash: %v", err)
	}

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{
			name:           "correct password",
			hashedPassword: hash,
			password:       password,
			want:           true,
		},
		{
			name:           "incorrect password",
			hashedPassword: hash,
			password:       "WrongPassword",
			want:           false,
		},
		{
			name:           "empty password",
			hashedPassword: hash,
			password:       "",
			want:           false,
		},
		{
			name:           "case sensitive",
			hashedPassword: hash,
			password:       strings.ToUpper(password),
			want:           false,
		},
		{
			name:           "malformed hash",
			hashedPassword: "not-a-bcrypt-hash",
			password:       password,
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.hashedPassword, tt.password); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkHash(b *testing.B) {
	password := "BenchmarkPassword123!"

	for i := 0; i < b.N; i++ {
		_, err := Hash(password)
		if err != nil {
			b.Fatalf("Hash() error = %v", err)
		}
	}
}

func BenchmarkVerify(b *testing.B) {
	password := "BenchmarkPassword123!"
	hash, _ := Hash(password)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Verify(hash, password)
	}
}
