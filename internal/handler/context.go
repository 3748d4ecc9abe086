package handler

type ContextKey string

var (
	SubCtxKey     ContextKey = "sub"
	MyInfoCtx     ContextKey = "myInfo"
	UserInfoCtx   ContextKey = "userInfo"
	SurveyCtx     ContextKey = "survey"
	WithdrawalCtx ContextKey = "withdrawal"
	RequestIDCtx  ContextKey = "requestID"
)
