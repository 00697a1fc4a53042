package mailer

import "html/template"

var sosTemplate = template.Must(template.New("sos").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #f0f0f0; border-radius: 5px;">
  <div style="background-color: #ff4d4d; color: white; padding: 10px; text-align: center; border-radius: 5px 5px 0 0;">
    <h1 style="margin: 0;">EMERGENCY ALERT</h1>
  </div>
  <div style="padding: 20px;">
    <p><strong>{{.User.Name}}</strong> has triggered an emergency SOS alert and may need immediate help!</p>
    <p>Contact information:</p>
    <ul>
      <li>Phone: {{.User.Phone}}</li>
      <li>Email: {{.User.Email}}</li>
      {{- if .User.Address}}
      <li>Address: {{.User.Address}}</li>
      {{- end}}
    </ul>
    <p><strong>Current Location:</strong></p>
    <p><a href="{{.MapsLink}}" style="background-color: #4285f4; color: white; padding: 10px 15px; border-radius: 5px; text-decoration: none; display: inline-block;">View on Google Maps</a></p>
    <p style="color: #666; font-size: 14px;">This is an automated emergency alert sent from the Rakshak-Women Safety platform.</p>
  </div>
  <div style="background-color: #f0f0f0; padding: 10px; text-align: center; font-size: 12px; color: #666; border-radius: 0 0 5px 5px;">
    <p>Rakshak-Women Safety | Safety is our priority</p>
    <p>If this is a life-threatening emergency, please contact emergency services immediately.</p>
  </div>
</div>
`))

var statusTemplate = template.Must(template.New("status").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #f0f0f0; border-radius: 5px;">
  <div style="background-color: #4285f4; color: white; padding: 10px; text-align: center; border-radius: 5px 5px 0 0;">
    <h1 style="margin: 0;">Complaint Status Update</h1>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.Recipient.Name}},</p>
    <p>Your complaint <strong>"{{.ComplaintTitle}}"</strong> has been updated.</p>
    <p><strong>New Status:</strong> {{.Status}}</p>
    <p><strong>Message:</strong> {{.Message}}</p>
    <p><a href="{{.ComplaintsLink}}" style="background-color: #4285f4; color: white; padding: 10px 15px; border-radius: 5px; text-decoration: none; display: inline-block;">View Complaint Details</a></p>
    <p style="color: #666; font-size: 14px;">Thank you for using Rakshak-Women Safety platform.</p>
  </div>
  <div style="background-color: #f0f0f0; padding: 10px; text-align: center; font-size: 12px; color: #666; border-radius: 0 0 5px 5px;">
    <p>Rakshak-Women Safety | Safety is our priority</p>
  </div>
</div>
`))
