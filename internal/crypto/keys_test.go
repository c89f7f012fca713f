package crypto

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestGeneratePrivateKey(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	if key == nil {
		t.Fatal("GeneratePrivateKey returned nil key")
	}

	hexKey := PrivateKeyHex(key)
	if !strings.HasPrefix(hexKey, "0x") || len(hexKey) != 66 {
		t.Errorf("PrivateKeyHex = %q, want 0x-prefixed 64 hex chars", hexKey)
	}
}

func TestPrivateKeyFromBytes(t *testing.T) {
	// secp256k1 curve order
	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:  "smallest valid scalar",
			input: append(make([]byte, 31), 1),
		},
		{
			name:    "zero scalar",
			input:   make([]byte, 32),
			wantErr: true,
		},
		{
			name:    "scalar equal to curve order",
			input:   order,
			wantErr: true,
		},
		{
			name:    "wrong length",
			input:   []byte{0x01, 0x02},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := PrivateKeyFromBytes(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPrivateKey) {
					t.Fatalf("PrivateKeyFromBytes error = %v, want ErrInvalidPrivateKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrivateKeyFromBytes: %v", err)
			}
			if key == nil {
				t.Fatal("PrivateKeyFromBytes returned nil key")
			}
		})
	}
}

func TestDerivePublicKeyDeterministic(t *testing.T) {
	keyBytes, _ := hex.DecodeString("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")

	first, err := PrivateKeyFromBytes(keyBytes)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	second, err := PrivateKeyFromBytes(keyBytes)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}

	if PubkeyToAddress(&first.PublicKey) != PubkeyToAddress(&second.PublicKey) {
		t.Error("public key derivation is not deterministic")
	}
}
