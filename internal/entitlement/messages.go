package entitlement

// User-facing reply templates produced by the engine

const (
	DisclaimerMsg = `⚠️ <b>Before we start</b>

This bot sends <b>AI-generated faces of people who do not exist</b>. Any resemblance to real persons is coincidental.

• Images may not be used to impersonate anyone
• You are responsible for how you use them

Do you agree to these terms?`

	ConsentDeclinedMsg = `👋 Understood. No data has been stored.

If you change your mind, just send /start again.`

	UsernamePromptMsg = `🎉 <b>Welcome aboard!</b>

You start with <b>5 free credits</b> — one credit per generated face.

What should I call you? Send me a display name (1-32 characters).`

	UsernameInvalidMsg = `❌ That name won't work. Please send a display name between 1 and 32 characters.`

	AlreadyNamedMsg = `🤖 You're all set! Use /generate to get a face, or /stats to check your balance.`

	WelcomeTemplate = `✨ Nice to meet you, <b>%s</b>!

You have <b>%d credits</b>. Each /generate costs one credit.

• 📺 Watch ads for extra credits (up to %d per day)
• 💎 Or go unlimited with a subscription

Ready? Send /generate!`

	PhotoCaption = "Here is a new AI-generated face!"

	OutOfCreditsMsg = `😔 <b>You're out of credits</b>

Credits refill automatically every month. Until then you can:`

	AdWatchedTemplate = `📺 Thanks for watching! <b>+1 credit</b>

Balance: <b>%d credits</b> | Ads today: %d/%d`

	AdCapReachedTemplate = `🚫 You've reached the daily ad limit (%d/day).

Come back tomorrow, or go unlimited with a subscription!`

	PricingMenuMsg = `💎 <b>Plans</b>

🪙 <b>Credit Pack</b> — $5 for 50 credits
♾️ <b>Unlimited</b> — $15, generate without limits

<i>Payments are simulated in this build.</i>`

	CreditsGrantedTemplate = `✅ <b>Purchase complete!</b>

<b>+%d credits</b> added. New balance: <b>%d credits</b>.`

	UnlimitedGrantedMsg = `♾️ <b>Unlimited unlocked!</b>

Generate as many faces as you like — credits are no longer consumed.`

	StatsTemplate = `📊 <b>Your stats</b>

👤 Name: <b>%s</b>
🪙 Credits: <b>%d</b>
♾️ Unlimited: %s
🔄 Next credit refill: %s
📺 Ads today: %d/%d`

	NotOnboardedMsg = `🤖 We haven't met yet! Send /start to begin onboarding.`
)
