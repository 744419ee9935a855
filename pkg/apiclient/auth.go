package apiclient

import (
	"fmt"
	"net/http"
	"os"

	"github.com/kadirpekel/agentcore/pkg/datasource"
)

// applyAuth sets the request headers a Datasource's AuthScheme requires,
// resolving secrets from the environment variables named in AuthConfig
// (env_var, token_env, username_env, password_env) (spec §6.4:
// "consumed via the API-client auth machinery").
func applyAuth(req *http.Request, d datasource.Datasource) error {
	switch d.AuthScheme {
	case datasource.AuthNone, "":
		return nil

	case datasource.AuthAPIKey, datasource.AuthCustom:
		header := d.AuthConfig["header"]
		if header == "" {
			header = "X-API-Key"
		}
		val, err := envValue(d, "env_var")
		if err != nil {
			return err
		}
		req.Header.Set(header, val)
		return nil

	case datasource.AuthBearer, datasource.AuthOAuth2:
		val, err := envValue(d, "env_var")
		if err != nil {
			// OAuth2 datasources may key their token under token_env instead.
			var tokErr error
			val, tokErr = envValue(d, "token_env")
			if tokErr != nil {
				return err
			}
		}
		req.Header.Set("Authorization", "Bearer "+val)
		return nil

	case datasource.AuthBasic:
		user, err := envValue(d, "username_env")
		if err != nil {
			return err
		}
		pass, err := envValue(d, "password_env")
		if err != nil {
			return err
		}
		req.SetBasicAuth(user, pass)
		return nil

	default:
		return fmt.Errorf("apiclient: unknown auth scheme %q for datasource %q", d.AuthScheme, d.ID)
	}
}

func envValue(d datasource.Datasource, configKey string) (string, error) {
	name := d.AuthConfig[configKey]
	if name == "" {
		return "", fmt.Errorf("apiclient: datasource %q missing auth_config[%s]", d.ID, configKey)
	}
	val := os.Getenv(name)
	if val == "" {
		return "", fmt.Errorf("apiclient: environment variable %q is not set", name)
	}
	return val, nil
}
