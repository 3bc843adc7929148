package cli

import (
	"context"
	"fmt"
	"io"

	"afrikar/internal/client/core/domain/dto"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

type Auth struct {
	mylog    mylogger.Logger
	auth     driver.IAuthService
	navigate func(view string)

	IsLogin bool
	Form    dto.RegisterRequest
	loading
}

func NewAuth(mylog mylogger.Logger, auth driver.IAuthService, navigate func(string)) *Auth {
	return &Auth{
		mylog:    mylog,
		auth:     auth,
		navigate: navigate,
		IsLogin:  true,
	}
}

// Submit logs in or registers depending on IsLogin, then opens the dashboard.
func (a *Auth) Submit(ctx context.Context) error {
	return a.run(func() error {
		var err error
		if a.IsLogin {
			_, err = a.auth.Login(ctx, dto.LoginRequest{
				Email:      a.Form.Email,
				MotDePasse: a.Form.MotDePasse,
			})
		} else {
			_, err = a.auth.Register(ctx, a.Form)
		}
		if err != nil {
			return err
		}
		a.navigate(ViewDashboard)
		return nil
	})
}

// Toggle switches between the login and registration forms.
func (a *Auth) Toggle() {
	a.IsLogin = !a.IsLogin
}

func (a *Auth) Render(w io.Writer) {
	if a.IsLogin {
		fmt.Fprintln(w, titleStyle.Render("Connexion"))
		fmt.Fprintln(w, mutedStyle.Render("Connectez-vous à votre compte"))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Inscription"))
	fmt.Fprintln(w, mutedStyle.Render("Créez votre compte AfriKar"))
}
