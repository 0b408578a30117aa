package identity

import (
	"context"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/pkg/config"
)

var _ access.IdentityVerifier = (*FirebaseVerifier)(nil)

// FirebaseVerifier verifica ID tokens de Firebase Auth. El cliente se crea una sola vez,
// en la primera verificación, y se reutiliza en todas las peticiones.
type FirebaseVerifier struct {
	cfg config.FirebaseConfig

	once    sync.Once
	client  *firebaseauth.Client
	initErr error
}

// NewFirebaseVerifier construye el verificador sin conectar todavía.
func NewFirebaseVerifier(cfg config.FirebaseConfig) *FirebaseVerifier {
	return &FirebaseVerifier{cfg: cfg}
}

// Init fuerza la inicialización (en el arranque, para fallar antes de aceptar tráfico).
func (v *FirebaseVerifier) Init(ctx context.Context) error {
	_, err := v.authClient(ctx)
	return err
}

func (v *FirebaseVerifier) authClient(ctx context.Context) (*firebaseauth.Client, error) {
	v.once.Do(func() {
		var opts []option.ClientOption
		if v.cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(v.cfg.CredentialsFile))
		}
		var fbConfig *firebase.Config
		if v.cfg.ProjectID != "" {
			fbConfig = &firebase.Config{ProjectID: v.cfg.ProjectID}
		}
		app, err := firebase.NewApp(context.WithoutCancel(ctx), fbConfig, opts...)
		if err != nil {
			v.initErr = fmt.Errorf("identity: inicializar firebase app: %w", err)
			return
		}
		client, err := app.Auth(context.WithoutCancel(ctx))
		if err != nil {
			v.initErr = fmt.Errorf("identity: inicializar firebase auth: %w", err)
			return
		}
		v.client = client
	})
	return v.client, v.initErr
}

// Verify implementa access.IdentityVerifier. Subject = UID de Firebase.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	client, err := v.authClient(ctx)
	if err != nil {
		return "", err
	}
	tok, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", access.ErrInvalidToken, err)
	}
	return tok.UID, nil
}
