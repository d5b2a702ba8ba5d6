package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrCoinNotFound      = Errno{Code: 20101, Message: "Coin not found"}
	ErrWithdrawNotFound  = Errno{Code: 20201, Message: "Withdraw record not found"}
	ErrWithdrawTerminal  = Errno{Code: 20202, Message: "Withdraw record already settled"}
	ErrWithdrawNotManual = Errno{Code: 20203, Message: "Withdraw record is not waiting for manual handling"}
)
