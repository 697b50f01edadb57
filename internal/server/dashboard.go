package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Crowsnest</title>
    <meta name="description" content="Live character screening feed">
    <link rel="icon" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='.9em' font-size='90'>&#128737;</text></svg>">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --bg: #09090b;
            --bg-subtle: #18181b;
            --border: #27272a;
            --text: #fafafa;
            --text-secondary: #a1a1aa;
            --red: #ef4444;
            --yellow: #f59e0b;
            --green: #22c55e;
            --unknown: #52525b;
        }

        body {
            font-family: -apple-system, 'Segoe UI', sans-serif;
            background: var(--bg);
            color: var(--text);
            min-height: 100vh;
            font-size: 14px;
            line-height: 1.5;
        }

        .container { max-width: 900px; margin: 0 auto; padding: 32px 16px; }

        header { display: flex; align-items: baseline; gap: 12px; margin-bottom: 24px; }
        header h1 { font-size: 20px; font-weight: 600; }
        header .status { color: var(--text-secondary); font-size: 12px; }
        header .status.live { color: var(--green); }

        .verdict {
            display: flex;
            align-items: center;
            gap: 16px;
            background: var(--bg-subtle);
            border: 1px solid var(--border);
            border-radius: 8px;
            padding: 12px 16px;
            margin-bottom: 8px;
        }
        .verdict .risk {
            font-weight: 600;
            text-transform: uppercase;
            font-size: 12px;
            min-width: 70px;
        }
        .risk.red { color: var(--red); }
        .risk.yellow { color: var(--yellow); }
        .risk.green { color: var(--green); }
        .risk.unknown { color: var(--unknown); }

        .verdict .name { flex: 1; font-weight: 500; }
        .verdict .counts { color: var(--text-secondary); font-size: 12px; }
        .empty { color: var(--text-secondary); padding: 32px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Crowsnest</h1>
            <span class="status" id="status">connecting&hellip;</span>
        </header>
        <div id="feed"><div class="empty">Waiting for verdicts&hellip;</div></div>
    </div>
    <script>
        const feed = document.getElementById('feed');
        const status = document.getElementById('status');
        let empty = true;

        function connect() {
            const proto = location.protocol === 'https:' ? 'wss' : 'ws';
            const ws = new WebSocket(proto + '://' + location.host + '/ws');

            ws.onopen = () => {
                status.textContent = 'live';
                status.classList.add('live');
                ws.send(JSON.stringify({ eventTypes: ['verdict'] }));
            };
            ws.onclose = () => {
                status.textContent = 'reconnecting…';
                status.classList.remove('live');
                setTimeout(connect, 3000);
            };
            ws.onmessage = (msg) => {
                const event = JSON.parse(msg.data);
                if (event.type !== 'verdict') return;
                if (empty) { feed.innerHTML = ''; empty = false; }

                const v = event.data;
                const el = document.createElement('div');
                el.className = 'verdict';
                el.innerHTML =
                    '<span class="risk ' + v.overallRisk + '">' + v.overallRisk + '</span>' +
                    '<span class="name"></span>' +
                    '<span class="counts">' + v.redCount + ' red / ' + v.yellowCount +
                    ' yellow / ' + v.greenCount + ' green</span>';
                el.querySelector('.name').textContent = v.characterName + ' (' + v.characterId + ')';
                feed.prepend(el);
                while (feed.children.length > 50) feed.removeChild(feed.lastChild);
            };
        }
        connect();
    </script>
</body>
</html>`

func dashboardHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}
