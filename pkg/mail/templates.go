package mail

import "html/template"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
<body>
    <h2>Booking Confirmation - Hostal MAGIC</h2>
    <p>Hello {{.CustomerName}},</p>
    <p>Your booking has been confirmed!</p>

    <h3>Booking Details:</h3>
    <ul>
        <li><strong>Booking ID:</strong> {{.BookingID}}</li>
        <li><strong>Check-in:</strong> {{.CheckIn}}</li>
        <li><strong>Check-out:</strong> {{.CheckOut}}</li>
        <li><strong>Room Type:</strong> {{.RoomType}}</li>
        <li><strong>Guests:</strong> {{.GuestCount}}</li>
        <li><strong>Total:</strong> ${{printf "%.2f" .TotalPrice}}</li>
    </ul>

    <p>We look forward to welcoming you in Bacalar!</p>
    <p>Hostal MAGIC Team</p>
</body>
</html>`))

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #2E86AB; color: white; padding: 20px; text-align: center; }
        .section { margin: 20px 0; padding: 15px; border-left: 4px solid #2E86AB; }
        .alert-high { background-color: #ffebee; border-left-color: #f44336; }
        .alert-medium { background-color: #fff3e0; border-left-color: #ff9800; }
        .alert-low { background-color: #e8f5e9; border-left-color: #4caf50; }
        .metric { background-color: #f5f5f5; padding: 10px; margin: 5px 0; border-radius: 5px; }
        ul { padding-left: 20px; }
        li { margin: 8px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Hostal MAGIC - Daily Report</h1>
        <p>{{.Date}}</p>
    </div>

    <div class="section">
        <h2>Key Insights</h2>
        <ul>
        {{- range .Insights}}
            <li>{{.}}</li>
        {{- end}}
        </ul>
    </div>

    {{- if .Alerts}}
    <div class="section">
        <h2>Alerts</h2>
        {{- range .Alerts}}
        <div class="metric alert-{{.Priority}}">
            <strong>{{.Kind}}</strong><br>
            {{.Message}}<br>
            <em>Suggested action: {{.SuggestedAction}}</em>
        </div>
        {{- end}}
    </div>
    {{- end}}

    {{- if .Metrics}}
    <div class="section">
        <h2>Metrics Summary</h2>
        {{- range .Metrics}}
        <div class="metric"><strong>{{.Label}}:</strong> {{.Value}}</div>
        {{- end}}
    </div>
    {{- end}}

    <div class="section">
        <p><em>This report was generated automatically by the Hostal MAGIC analytics pipeline.</em></p>
    </div>
</body>
</html>`))

var failureTmpl = template.Must(template.New("failure").Parse(`<html>
<body>
    <h2>Analytics pipeline failure</h2>
    <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
    <p><strong>Stage:</strong> {{.Stage}}</p>
    <p><strong>Error:</strong> {{.Error}}</p>
    <p>Check the service logs for details.</p>
</body>
</html>`))
