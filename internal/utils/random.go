package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

var firstNames = []string{
	"Wanjiru", "Otieno", "Achieng", "Kamau", "Njeri", "Mutua", "Chebet", "Kiprono",
	"Amina", "Baraka", "Zawadi", "Juma", "Akinyi", "Mwangi", "Wairimu", "Omondi",
	"李明", "王芳", "陈静", "张伟",
}

var lastNames = []string{
	"Kariuki", "Odhiambo", "Wafula", "Kipchoge", "Mohamed", "Njoroge", "Atieno",
	"Mutiso", "Chege", "Koech", "Owino", "Wekesa",
}

func GenerateRandomName() string {
	first := firstNames[rand.Intn(len(firstNames))]
	// Han names already carry the family name
	if !isLatin(first) {
		return first
	}
	return first + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

// UsernameFromName lowercases Latin names and transliterates Han characters to
// pinyin, then appends 1-3 random digits.
func UsernameFromName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case unicode.Is(unicode.Han, r):
			for _, syllable := range pinyin.LazyConvert(string(r), nil) {
				b.WriteString(syllable)
			}
		}
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		b.WriteByte(digits[rand.Intn(len(digits))])
	}

	return b.String()
}

func isLatin(s string) bool {
	for _, r := range s {
		if r >= unicode.MaxASCII {
			return false
		}
	}
	return true
}

func GenerateRandomPhone() string {
	prefixes := []string{"07", "01"}
	phone := prefixes[rand.Intn(len(prefixes))]
	for i := 0; i < 8; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

var codeAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateRandomPaymentCode produces a 10 character M-Pesa style reference.
func GenerateRandomPaymentCode() string {
	code := make([]rune, 10)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}

func GenerateRandomAccount(password string, emailDomainName string) (*domain.Account, error) {
	name := GenerateRandomName()
	username := UsernameFromName(name)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:       username,
		Email:          fmt.Sprintf("%s@%s", username, emailDomainName),
		Phone:          GenerateRandomPhone(),
		PasswordHash:   string(passwordHash),
		Role:           domain.RoleUser,
		Balance:        int64(rand.Intn(60)) * 50,
		ActivationCode: GenerateRandomPaymentCode(),
		PremiumTier:    domain.TierNone,
	}

	if rand.Intn(4) == 0 {
		tiers := []domain.PremiumTier{domain.TierBasic, domain.TierStandard, domain.TierElite}
		account.IsPremium = true
		account.PremiumTier = tiers[rand.Intn(len(tiers))]
		account.PremiumCode = GenerateRandomPaymentCode()
	}

	return account, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}
