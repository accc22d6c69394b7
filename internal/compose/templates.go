package compose

import (
	"fmt"

	"github.com/echomi/echomi-ai-platform/internal/lang"
)

// ReplyIntent names what the assistant needs to say this turn. The
// dialogue policy picks the intent; the composer turns it into words.
type ReplyIntent string

const (
	ReplyAskRole             ReplyIntent = "ask_role"
	ReplyAskCompany          ReplyIntent = "ask_company"
	ReplyAskOrderContext     ReplyIntent = "ask_order_context"
	ReplyDeliverOTP          ReplyIntent = "deliver_otp"
	ReplyNoOTPMatch          ReplyIntent = "no_otp_match"
	ReplyOTPUnavailable      ReplyIntent = "otp_unavailable"
	ReplyConfirmManualOTP    ReplyIntent = "confirm_manual_otp"
	ReplyAskNavigationStart  ReplyIntent = "ask_navigation_start"
	ReplyDeliverNavigation   ReplyIntent = "deliver_navigation"
	ReplyNavUnavailable      ReplyIntent = "navigation_unavailable"
	ReplyArrivalAck          ReplyIntent = "arrival_ack"
	ReplyAskVisitorName      ReplyIntent = "ask_visitor_name"
	ReplyAskVisitorPurpose   ReplyIntent = "ask_visitor_purpose"
	ReplyAskCallback         ReplyIntent = "ask_callback"
	ReplyForwardedForApproval ReplyIntent = "forwarded_for_approval"
	ReplyApprovalPending     ReplyIntent = "approval_pending"
	ReplyClarify             ReplyIntent = "clarify"
	ReplyHumanHandoff        ReplyIntent = "human_handoff"
	ReplyGoodbye             ReplyIntent = "goodbye"
)

// Caveat phrases attached to medium- and low-confidence codes. The
// token guard requires these verbatim, so they live in one place.
const (
	caveatEN = "please confirm it matches your app before using it"
	caveatHI = "istemal se pehle apne app se milan kar lein"
)

func template(intent ReplyIntent, c Context) string {
	if c.Language == lang.Hindi {
		return templateHI(intent, c)
	}
	return templateEN(intent, c)
}

func templateEN(intent ReplyIntent, c Context) string {
	switch intent {
	case ReplyAskRole:
		return "Hello! I'm answering on behalf of the resident. Are you here with a delivery, or is this about something else?"
	case ReplyAskCompany:
		return "Sure, I can help with the delivery code. Which company is the order from?"
	case ReplyAskOrderContext:
		return "I couldn't confirm that one yet. Do you have the order number, or can you read out the code shown in your app?"
	case ReplyDeliverOTP:
		base := fmt.Sprintf("The delivery code is %s.", SpeakDigits(c.OTP))
		if c.Company != "" {
			base = fmt.Sprintf("The delivery code for the %s order is %s.", c.Company, SpeakDigits(c.OTP))
		}
		if c.Caveat {
			base += " I'm not fully certain this is the right one, so " + caveatEN + "."
		}
		return base
	case ReplyNoOTPMatch:
		return "I couldn't find a matching code in the recent messages. If your app shows the order number or the code, please read it out and I'll confirm it."
	case ReplyOTPUnavailable:
		return "I'm unable to check the messages right now. Please try again in a moment, or contact the resident directly."
	case ReplyConfirmManualOTP:
		return fmt.Sprintf("Got it, the code you have is %s. Please go ahead with that.", SpeakDigits(c.OTP))
	case ReplyAskNavigationStart:
		return "I can guide you in. Where are you right now?"
	case ReplyDeliverNavigation:
		return fmt.Sprintf("It's %s. %s.", c.RouteSummary, c.RouteSteps)
	case ReplyNavUnavailable:
		return "I couldn't work out directions for that. Could you describe where you are, or ask someone nearby for the way?"
	case ReplyArrivalAck:
		return "Thanks for letting me know you've arrived. The resident has been notified."
	case ReplyAskVisitorName:
		return "May I know who's calling, please?"
	case ReplyAskVisitorPurpose:
		if c.Name != "" {
			return fmt.Sprintf("Thanks, %s. What is this regarding?", c.Name)
		}
		return "And what is this regarding?"
	case ReplyAskCallback:
		return "Is there a number the resident can reach you back on?"
	case ReplyForwardedForApproval:
		if c.Callback != "" {
			return fmt.Sprintf("Thank you. I've passed your details to the resident, and they'll reach you on %s shortly.", SpeakPhone(c.Callback))
		}
		return "Thank you. I've passed your details to the resident, and they'll get back to you shortly."
	case ReplyApprovalPending:
		return "Your message is with the resident. They haven't responded yet, but they'll reach out as soon as they can."
	case ReplyClarify:
		return "Sorry, I didn't catch that. Could you say it again?"
	case ReplyHumanHandoff:
		return "I'm having trouble following, sorry about that. I'll ask the resident to call you back; is there anything else I can note down?"
	case ReplyGoodbye:
		return "Alright, take care. Goodbye!"
	default:
		return "Sorry, I didn't catch that. Could you say it again?"
	}
}

func templateHI(intent ReplyIntent, c Context) string {
	switch intent {
	case ReplyAskRole:
		return "Namaste! Main resident ki taraf se baat kar raha hoon. Kya aap delivery ke liye aaye hain, ya koi aur baat hai?"
	case ReplyAskCompany:
		return "Zaroor, main delivery code mein madad kar sakta hoon. Order kis company ka hai?"
	case ReplyAskOrderContext:
		return "Abhi woh confirm nahi ho paya. Kya aapke paas order number hai, ya app mein dikh raha code bata sakte hain?"
	case ReplyDeliverOTP:
		base := fmt.Sprintf("Delivery code hai %s.", SpeakDigits(c.OTP))
		if c.Company != "" {
			base = fmt.Sprintf("%s order ka delivery code hai %s.", c.Company, SpeakDigits(c.OTP))
		}
		if c.Caveat {
			base += " Mujhe poora yakeen nahi hai, isliye " + caveatHI + "."
		}
		return base
	case ReplyNoOTPMatch:
		return "Haal ke messages mein matching code nahi mila. Agar app mein order number ya code dikh raha hai, toh bata dijiye, main confirm kar dunga."
	case ReplyOTPUnavailable:
		return "Abhi messages check nahi ho pa rahe. Thodi der mein try kariye, ya resident se seedha sampark kariye."
	case ReplyConfirmManualOTP:
		return fmt.Sprintf("Theek hai, aapke paas code hai %s. Usi se aage badhiye.", SpeakDigits(c.OTP))
	case ReplyAskNavigationStart:
		return "Main raasta bata sakta hoon. Aap abhi kahan hain?"
	case ReplyDeliverNavigation:
		return fmt.Sprintf("Yeh %s hai. %s.", c.RouteSummary, c.RouteSteps)
	case ReplyNavUnavailable:
		return "Uska raasta nahi nikal paya. Aap kahan hain thoda aur bataiye, ya aas paas kisi se pooch lijiye."
	case ReplyArrivalAck:
		return "Aapke pahunchne ki khabar mil gayi. Resident ko bata diya gaya hai."
	case ReplyAskVisitorName:
		return "Aap kaun bol rahe hain, kripya bataiye?"
	case ReplyAskVisitorPurpose:
		if c.Name != "" {
			return fmt.Sprintf("Dhanyavad, %s. Kis silsile mein baat karni hai?", c.Name)
		}
		return "Kis silsile mein baat karni hai?"
	case ReplyAskCallback:
		return "Kya koi number hai jis par resident aapko wapas call kar sakein?"
	case ReplyForwardedForApproval:
		if c.Callback != "" {
			return fmt.Sprintf("Dhanyavad. Maine aapki jaankari resident tak pahuncha di hai, woh aapko %s par sampark karenge.", SpeakPhone(c.Callback))
		}
		return "Dhanyavad. Maine aapki jaankari resident tak pahuncha di hai, woh jald hi aapse sampark karenge."
	case ReplyApprovalPending:
		return "Aapka sandesh resident ke paas hai. Unka jawab abhi nahi aaya, lekin woh jald hi sampark karenge."
	case ReplyClarify:
		return "Maaf kijiye, samajh nahi paya. Kripya dobara boliye?"
	case ReplyHumanHandoff:
		return "Mujhe samajhne mein dikkat ho rahi hai, maaf kijiye. Main resident se kahunga ki aapko call karein; aur kuch note karna hai?"
	case ReplyGoodbye:
		return "Theek hai, dhanyavad. Namaste!"
	default:
		return "Maaf kijiye, samajh nahi paya. Kripya dobara boliye?"
	}
}
