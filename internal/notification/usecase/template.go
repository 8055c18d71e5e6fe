package usecase

const verificationCodeSubject = "Verify your email address"

const verificationCodeBody = `<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Hi {{.full_name}},</h2>
  <p>Welcome to {{.company_name}}! Use the code below to verify your email address:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">{{.code}}</p>
  <p>The code expires in {{.code_ttl}}. If you did not create an account, you can ignore this email.</p>
  <p>Need help? Contact us at {{.support_email}}.</p>
  <p>&copy; {{.year}} {{.company_name}}</p>
</body>
</html>`

const passwordResetSubject = "Reset your password"

const passwordResetBody = `<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Hi {{.full_name}},</h2>
  <p>We received a request to reset your password. Use the code below to continue:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">{{.code}}</p>
  <p>The code expires in {{.code_ttl}}. If you did not request a reset, your account is still safe and no action is needed.</p>
  <p>Need help? Contact us at {{.support_email}}.</p>
  <p>&copy; {{.year}} {{.company_name}}</p>
</body>
</html>`
