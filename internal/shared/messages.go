package shared

import "errors"

// Localized (Persian) user-facing messages keyed by error kind. Handlers and
// the gate never leak raw driver errors to callers.
const (
	MsgUnauthenticated    = "فقط افراد ثبت نام کرده می توانند استفاده کنند"
	MsgValidation         = "اطلاعات وارد شده معتبر نیست"
	MsgNotFound           = "مورد درخواست شده یافت نشد"
	MsgDuplicate          = "حساب با این مشخصات قبلا ثبت شده است"
	MsgAccountInUse       = "این حساب دارای معاملات ثبت شده است و قابل حذف نیست"
	MsgStorageTimeout     = "اتصال به پایگاه داده با تاخیر مواجه شد لطفا بعدا تلاش کنید"
	MsgInvalidCredentials = "ایمیل یا رمز عبور اشتباه است"
	MsgInternal           = "مشکلی به وجود آمده لطفا بعدا دوباره تلاش کنید"
)

// UserSafeMessage maps an error from the taxonomy to its localized message.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return MsgUnauthenticated
	case errors.Is(err, ErrValidation):
		return MsgValidation
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrDuplicate):
		return MsgDuplicate
	case errors.Is(err, ErrAccountInUse):
		return MsgAccountInUse
	case errors.Is(err, ErrStorageTimeout):
		return MsgStorageTimeout
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	default:
		return MsgInternal
	}
}
