package auth

import (
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	password := "correct-horse-battery-staple"

	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == "" {
		t.Fatal("Hash() returned empty hash")
	}
	if hash == password {
		t.Error("Hash() returned the plaintext password")
	}

	if !hasher.Verify(password, hash) {
		t.Error("Verify() should succeed for correct password")
	}
	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() should fail for wrong password")
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher()

	hash1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash1 == hash2 {
		t.Error("hashes of the same password should differ (unique salts)")
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher()

	if hasher.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify() should fail for a malformed hash")
	}
}

func TestNewPasswordHasher_CostFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{name: "unset", env: "", want: defaultBcryptCost},
		{name: "valid", env: "10", want: 10},
		{name: "minimum", env: "4", want: 4},
		{name: "not a number", env: "fast", want: defaultBcryptCost},
		{name: "below range", env: "1", want: defaultBcryptCost},
		{name: "above range", env: "99", want: defaultBcryptCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.env)
			hasher := NewPasswordHasher()
			if hasher.cost != tt.want {
				t.Errorf("cost = %d, want %d", hasher.cost, tt.want)
			}
		})
	}
}
