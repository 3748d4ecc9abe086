package domain

const (
	MailAccountCreated     = "account_created"
	MailResetPassword      = "reset_password"
	MailWithdrawalResolved = "withdrawal_resolved"
	MailDirectiveIssued    = "directive_issued"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AccountCreatedMailData struct {
	Username        string `json:"username"`
	Role            Role   `json:"role"`
	RegistrationFee int64  `json:"registrationFee"`
	Password        string `json:"password,omitempty"`
}

type ResetPasswordMailData struct {
	Username   string `json:"username"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type WithdrawalResolvedMailData struct {
	Username     string           `json:"username"`
	Amount       int64            `json:"amount"`
	Disbursement int64            `json:"disbursement"`
	Status       WithdrawalStatus `json:"status"`
}

type DirectiveIssuedMailData struct {
	Username    string `json:"username"`
	Issuer      string `json:"issuer"`
	Instruction string `json:"instruction"`
}
