package access

import svc "github.com/dropDatabas3/elderwatch/internal/http/services/access"

type Controllers struct {
	Access *AccessController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Access: NewAccessController(s.Access)}
}
