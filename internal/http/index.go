package http

import (
	"html/template"
	"net/http"
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Status</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: #1e1e1e;
            color: #e0e0e0;
            padding: 24px;
        }
        .container { max-width: 960px; margin: 0 auto; }
        h1 { font-size: 20px; margin-bottom: 16px; }
        .cards { display: flex; gap: 12px; flex-wrap: wrap; margin-bottom: 24px; }
        .card {
            background: #2d2d2d;
            border: 1px solid #3a3a3a;
            border-radius: 4px;
            padding: 14px 18px;
            min-width: 140px;
            flex: 1;
        }
        .card .label { font-size: 12px; color: #888; text-transform: uppercase; }
        .card .value { font-size: 22px; margin-top: 4px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
        th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #3a3a3a; }
        th { font-size: 12px; color: #888; text-transform: uppercase; }
        .up { color: #7dce87; }
        .down { color: #e06c75; }
        canvas { width: 100%; height: 180px; background: #2d2d2d; border: 1px solid #3a3a3a; border-radius: 4px; }
        .muted { color: #888; font-size: 12px; margin-top: 8px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Status</h1>
        <div class="cards" id="cards"></div>
        <table>
            <thead><tr><th>Asset</th><th>Price (USD)</th><th>24h</th></tr></thead>
            <tbody id="prices"></tbody>
        </table>
        <canvas id="chart" width="960" height="180"></canvas>
        <div class="muted" id="updated"></div>
    </div>
    <script>
        const fmtPct = v => v == null ? '–' : v.toFixed(1) + '%';
        const fmtTemp = v => v == null ? '–' : v.toFixed(1) + ' °C';

        function card(label, value, cls) {
            return '<div class="card"><div class="label">' + label +
                '</div><div class="value ' + (cls || '') + '">' + value + '</div></div>';
        }

        function lastNonNull(arr) {
            for (let i = arr.length - 1; i >= 0; i--) {
                if (arr[i] != null) return arr[i];
            }
            return null;
        }

        function drawChart(metrics) {
            const canvas = document.getElementById('chart');
            const ctx = canvas.getContext('2d');
            ctx.clearRect(0, 0, canvas.width, canvas.height);
            const drawLine = (values, color) => {
                ctx.strokeStyle = color;
                ctx.beginPath();
                let started = false;
                values.forEach((v, i) => {
                    if (v == null) { started = false; return; }
                    const x = i / Math.max(values.length - 1, 1) * canvas.width;
                    const y = canvas.height - v / 100 * canvas.height;
                    if (!started) { ctx.moveTo(x, y); started = true; }
                    else ctx.lineTo(x, y);
                });
                ctx.stroke();
            };
            drawLine(metrics.cpu, '#61afef');
            drawLine(metrics.ram, '#c678dd');
        }

        async function refresh() {
            const resp = await fetch('/api/dashboard');
            const d = await resp.json();

            const m = d.metrics;
            const online = lastNonNull(m.online);
            document.getElementById('cards').innerHTML =
                card('CPU', fmtPct(lastNonNull(m.cpu))) +
                card('RAM', fmtPct(lastNonNull(m.ram))) +
                card('Temp', fmtTemp(lastNonNull(m.temperature))) +
                card('Fan', fmtPct(lastNonNull(m.fan))) +
                card('Network', online == null ? '–' : (online ? 'online' : 'offline'),
                    online == null ? '' : (online ? 'up' : 'down')) +
                card('Device uptime', d.session ? d.session.total_human : '–');

            const rows = (d.prices || []).map(p =>
                '<tr><td>' + p.name + '</td><td>' +
                (p.price == null ? '–' : '$' + p.price.toLocaleString()) + '</td><td class="' +
                (p.change != null && p.change < 0 ? 'down' : 'up') + '">' +
                (p.change == null ? '–' : p.change.toFixed(2) + '%') + '</td></tr>');
            document.getElementById('prices').innerHTML = rows.join('');

            drawChart(m);
            document.getElementById('updated').textContent =
                'updated ' + d.updated_at + (d.error ? ' — partial: ' + d.error : '');
        }

        refresh();
        setInterval(refresh, 30000);
    </script>
</body>
</html>`

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

func (s *Server) addIndexRoute() {
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		indexTmpl.Execute(w, nil)
	})
}
