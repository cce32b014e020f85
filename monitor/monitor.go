package monitor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"layanan-publik-api/config"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a small operator page with service health and
// a JSON endpoint behind it.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor/health", func(c *gin.Context) {
		dbStatus := "ok"
		if sqlDB, err := config.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unreachable"
		}

		code := http.StatusOK
		if dbStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"service":  "layanan-publik-api",
			"database": dbStatus,
			"uptime":   time.Since(startedAt).String(),
		})
	})

	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="id">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Layanan Publik API Monitor</title>
  <style>
    body {
      background: #0f172a;
      color: #e2e8f0;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 40px 20px;
      margin: 0;
    }
    .container { max-width: 720px; margin: 0 auto; }
    h1 { font-size: 1.8rem; margin-bottom: 1.5rem; }
    .card {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1.5rem;
      margin-bottom: 1rem;
    }
    #status { font-size: 1.1rem; font-weight: 600; }
    pre { white-space: pre-wrap; color: #94a3b8; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Layanan Publik API</h1>
    <div class="card"><div id="status">Memuat status...</div></div>
    <div class="card"><pre id="detail"></pre></div>
  </div>
  <script>
    async function refresh() {
      try {
        const res = await fetch('/monitor/health');
        const data = await res.json();
        document.getElementById('status').textContent =
          res.ok ? 'Server aktif' : 'Server bermasalah';
        document.getElementById('detail').textContent = JSON.stringify(data, null, 2);
      } catch (e) {
        document.getElementById('status').textContent = 'Server tidak merespons';
      }
    }
    refresh();
    setInterval(refresh, 10000);
  </script>
</body>
</html>`))
	})
}
