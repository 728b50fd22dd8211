package consts

// Entitlement limits
const (
	InitialCredits    = 5  // granted when a record is created
	MonthlyCredits    = 5  // granted per elapsed calendar month
	MaxAdsPerDay      = 10 // daily cap on ad-watch credit grants
	CreditPackSize    = 50 // credits granted per simulated pack purchase
	MaxUsernameLength = 32
)

// Commands
const (
	CommandStart    = "/start"
	CommandGenerate = "/generate"
	CommandStats    = "/stats"
	CommandHelp     = "/help"
)

// Callback data for inline buttons
const (
	CallbackAgree        = "agree"
	CallbackDisagree     = "disagree"
	CallbackWatchAd      = "watch_ad"
	CallbackBuySub       = "buy_sub"
	CallbackBuyCredits   = "buy_credits"
	CallbackBuyUnlimited = "buy_unlimited"
	CallbackStats        = "stats"
)

// Button labels with emojis
const (
	ButtonAgree        = "✅ I Agree"
	ButtonDisagree     = "❌ Disagree"
	ButtonWatchAd      = "📺 Watch Ad (+1 credit)"
	ButtonSubscribe    = "💎 Subscription Plans"
	ButtonBuyCredits   = "🪙 Credit Pack $5"
	ButtonBuyUnlimited = "♾️ Unlimited $15"
	ButtonStats        = "📊 My Stats"
)

// Pricing shown in the subscription menu
const (
	PriceCreditPack = 5.0
	PriceUnlimited  = 15.0
)

// Parse modes
const (
	ParseModeHTML = "html"
)

// Common error messages
const (
	ErrorNotOnboarded    = "❌ Please run /start and finish onboarding first"
	ErrorUnknownCommand  = "❌ Unknown command. Use /help to see what I can do"
	ErrorGenericFailure  = "❌ Something went wrong. Please try again later"
	ErrorProviderFailure = "😔 Failed to generate a face. Please try again later."
)

// Image provider defaults
const (
	DefaultFaceAPIURL = "https://thispersondoesnotexist.com"
	FaceUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)
