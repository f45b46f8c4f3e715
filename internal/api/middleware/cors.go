package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured origins, or any origin without
// credentials when none is configured.
func ConfigCORS(allowedOrigins []string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AddAllowHeaders("Authorization")
	conf.AddExposeHeaders("X-Request-ID")
	conf.MaxAge = 12 * time.Hour

	if len(allowedOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = allowedOrigins
		conf.AllowCredentials = true
	}

	return cors.New(conf)
}
