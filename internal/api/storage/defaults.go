package storage

// DefaultTemplates are the starter templates inserted by SeedTemplates
var DefaultTemplates = []TemplateFields{
	{
		Name:    "Professional Standard",
		Subject: "Application for {{jobTitle}} Position",
		Body: `Dear Hiring Manager,

I hope this email finds you well. I am writing to express my strong interest in the {{jobTitle}} position at {{company}}.

With my background as a {{role}}, I am excited about the opportunity to contribute to your team. I have attached my resume for your review and would welcome the chance to discuss how my skills and experience align with your needs.

{{notes}}

Thank you for considering my application. I look forward to hearing from you soon.

Best regards,
[Your Name]`,
	},
	{
		Name:    "Casual & Friendly",
		Subject: "Excited about the {{jobTitle}} role!",
		Body: `Hi there!

I came across the {{jobTitle}} position at {{company}} and I'm really excited about the opportunity to join your team as a {{role}}.

I've attached my resume and would love to chat more about how I can contribute to your projects.

{{notes}}

Looking forward to connecting!

Best,
[Your Name]`,
	},
	{
		Name:    "Technical Focus",
		Subject: "Technical {{role}} - {{jobTitle}} Application",
		Body: `Dear Technical Hiring Team,

I am submitting my application for the {{jobTitle}} position at {{company}}. As an experienced {{role}}, I am particularly drawn to this opportunity because of the technical challenges and growth potential it offers.

My technical expertise includes:
- [List key technologies/skills relevant to the role]
- [Mention specific projects or achievements]
- [Highlight relevant experience]

{{notes}}

I have attached my resume and would appreciate the opportunity to discuss my qualifications in detail.

Thank you for your time and consideration.

Sincerely,
[Your Name]`,
	},
	{
		Name:    "Startup Focused",
		Subject: "Ready to make an impact - {{jobTitle}} at {{company}}",
		Body: `Hey {{company}} team!

I'm reaching out about the {{jobTitle}} position because I'm passionate about working with innovative companies like yours.

As a {{role}}, I thrive in fast-paced environments where I can wear multiple hats and make a real impact. I'm excited about the possibility of contributing to {{company}}'s growth and success.

{{notes}}

I've attached my resume and would love to learn more about your vision and how I can help bring it to life.

Thanks for your time!

[Your Name]`,
	},
}
