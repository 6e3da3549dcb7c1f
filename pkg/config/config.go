package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo .env).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Academia AcademiaConfig
	Sesion   SesionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig validación de tokens. El secreto es compartido con el core de la
// academia, que es quien emite los tokens; este servicio solo los valida.
type JWTConfig struct {
	Secret string
	Issuer string
}

// AcademiaConfig acceso a la API core de la academia (alumnos, deuda,
// catálogo, pagos) y datos fijos para el membrete del recibo.
type AcademiaConfig struct {
	BaseURL        string
	TimeoutSeconds int
	Nombre         string
	Direccion      string
	Telefono       string
	Email          string
}

// Timeout devuelve el timeout del cliente HTTP hacia el core.
func (c AcademiaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SesionConfig ciclo de vida de las sesiones de cobranza en memoria.
type SesionConfig struct {
	TTLMinutes int
}

// TTL devuelve el tiempo de vida de una sesión sin actividad.
func (c SesionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo). Las env vars tienen prioridad. Nombres esperados: APP_ENV,
// HTTP_PORT, JWT_SECRET, ACADEMIA_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env en el directorio de trabajo
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "cobranza-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "academia-core"),
		},
		Academia: AcademiaConfig{
			BaseURL:        getString(v, "ACADEMIA_BASE_URL", "http://localhost:9000"),
			TimeoutSeconds: getInt(v, "ACADEMIA_TIMEOUT_SECONDS", 15),
			Nombre:         getString(v, "ACADEMIA_NOMBRE", "Academia de Danzas"),
			Direccion:      getString(v, "ACADEMIA_DIRECCION", ""),
			Telefono:       getString(v, "ACADEMIA_TELEFONO", ""),
			Email:          getString(v, "ACADEMIA_EMAIL", ""),
		},
		Sesion: SesionConfig{
			TTLMinutes: getInt(v, "SESION_TTL_MINUTES", 30),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
