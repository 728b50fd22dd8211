package telegram

// Bot-level message templates; entitlement replies live with the engine

const (
	HelpMsg = `📚 <b>Face Forge Help</b>

<b>Commands:</b>
• /start - Onboarding and terms
• /generate - Get a new AI-generated face (1 credit)
• /stats - Your credits, subscription and ad usage
• /help - This message

<b>Credits:</b>
• New users start with 5 free credits
• 5 more credits every month, automatically
• 📺 Watch ads for +1 credit each (max 10/day)
• ♾️ Unlimited subscription skips credits entirely

<i>All faces are of people who do not exist.</i>`

	AgreedNoticeMsg   = "✅ Terms accepted."
	DeclinedNoticeMsg = "❌ Terms declined."
)
