package service

import "golang.org/x/crypto/bcrypt"

// Vault — обёртка над одностороним хешированием PIN-кодов.
// Сырой PIN никогда не сохраняется; восстановить его из хеша нельзя.
type Vault struct{}

// NewVault создаёт Vault.
func NewVault() *Vault {
	return &Vault{}
}

// Hash возвращает bcrypt-хеш секрета.
func (v *Vault) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify сверяет секрет с хешем. Пустой секрет или пустой хеш — всегда false.
func (v *Vault) Verify(secret, hash string) bool {
	if secret == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
