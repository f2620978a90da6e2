package router

import (
	"fmt"
	"strings"

	"github.com/spotcoach/cravebreaker/internal/content"
	"github.com/spotcoach/cravebreaker/internal/models"
)

const defaultCoachURL = "https://t.me/spotcoach"

const failurePreface = "💙 That's okay — not every technique fits every moment.\n" +
	"The urge is still beatable. Try another one:\n\n"

// categoryLabels maps categories to their menu button labels.
var categoryLabels = map[models.Category]string{
	models.CategorySweets:    "🍰 Sweets",
	models.CategoryAlcohol:   "🍷 Alcohol",
	models.CategorySmoking:   "🚬 Smoking",
	models.CategoryScrolling: "📱 Scrolling",
	models.CategoryAnger:     "😤 Anger",
	models.CategoryJunkFood:  "🍔 Junk food",
	models.CategoryShopping:  "🛒 Shopping",
}

func menuButton() Button {
	return Button{Label: "🏠 Main menu", Token: TokenMainMenu}
}

func menuRow() []Button {
	return []Button{menuButton()}
}

func outcomeRows(extra ...[]Button) [][]Button {
	rows := [][]Button{
		{
			{Label: "✅ It helped!", Token: TokenOutcomeSuccess},
			{Label: "😔 Didn't help", Token: TokenOutcomeFailed},
		},
	}
	rows = append(rows, extra...)
	rows = append(rows, menuRow())
	return rows
}

func mainMenuScreen() Screen {
	return Screen{
		Text: "🎯 *CraveBreaker* — your impulse control assistant.\n\n" +
			"An urge hit you right now? Hit the red button.\n" +
			"Otherwise, pick what you need:",
		Keyboard: [][]Button{
			{{Label: "🆘 I have an urge NOW", Token: TokenEmergencyHelp}},
			{{Label: "🧩 My impulses", Token: TokenMyImpulses}, {Label: "📊 My stats", Token: TokenShowStats}},
			{{Label: "☀️ Daily motivation", Token: TokenDailyMotivation}, {Label: "🌙 Evening reflection", Token: TokenEveningReflection}},
			{{Label: "🧠 Coaching session", Token: TokenCoachingSession}, {Label: "💬 Just talk", Token: TokenJustTalk}},
			{{Label: "❓ FAQ", Token: TokenFAQ}, {Label: "ℹ️ About", Token: TokenAbout}},
			{{Label: "👤 Contact a coach", Token: TokenContactCoach}},
		},
	}
}

func welcomeScreen() Screen {
	s := mainMenuScreen()
	s.Text = "👋 Welcome to *CraveBreaker*!\n\n" +
		"I help you ride out sudden urges — sweets, scrolling, smoking, " +
		"impulse buys and more. When a craving hits, I offer a quick technique " +
		"and track your wins.\n\n" + s.Text
	return s
}

func helpScreen() Screen {
	return Screen{
		Text: "❓ *How to use CraveBreaker*\n\n" +
			"• /menu — open the main menu\n" +
			"• /stats — your progress numbers\n" +
			"• /help — this message\n\n" +
			"When an urge hits, press «🆘 I have an urge NOW» and follow the steps. " +
			"After each technique tell me whether it helped — that is how your " +
			"streak grows.",
		Keyboard: [][]Button{menuRow()},
	}
}

func freeTextScreen() Screen {
	return Screen{
		Text: "💬 I hear you. I work best through the buttons below — " +
			"and if an urge is hitting right now, the red one is for you.",
		Keyboard: [][]Button{
			{{Label: "🆘 I have an urge NOW", Token: TokenEmergencyHelp}},
			menuRow(),
		},
	}
}

func emergencyScreen() Screen {
	return Screen{
		Text: "🆘 *Hold on — you've got this.*\n\n" +
			"The average urge peaks and fades within 10–15 minutes. " +
			"Pick a way to ride it out:",
		Keyboard: [][]Button{
			{{Label: "🫁 Breathing exercise", Token: TokenBreathing}},
			{{Label: "🧘 Short meditation", Token: TokenMeditation}},
			{{Label: "🧠 Coaching question", Token: TokenCoaching}},
			{{Label: "🎮 Distraction game", Token: TokenMiniGame}},
			{{Label: "🧩 It's a specific impulse", Token: TokenMyImpulses}},
			menuRow(),
		},
	}
}

func emergencyRetryScreen() Screen {
	s := emergencyScreen()
	s.Text = failurePreface + s.Text
	return s
}

func impulseListScreen(triggers []string) Screen {
	var b strings.Builder
	b.WriteString("🧩 *What kind of urge is it?*\n\nPick the impulse you are fighting:")
	if len(triggers) > 0 {
		b.WriteString("\n\n📌 You've dealt with before: " + strings.Join(triggers, ", "))
	}
	var rows [][]Button
	for i := 0; i < len(models.Categories); i += 2 {
		row := []Button{{Label: categoryLabels[models.Categories[i]], Token: ImpulseToken(models.Categories[i])}}
		if i+1 < len(models.Categories) {
			row = append(row, Button{Label: categoryLabels[models.Categories[i+1]], Token: ImpulseToken(models.Categories[i+1])})
		}
		rows = append(rows, row)
	}
	rows = append(rows, menuRow())
	return Screen{Text: b.String(), Keyboard: rows}
}

func techniqueListScreen(cat models.Category, guide content.ImpulseGuide, preface string) Screen {
	rows := make([][]Button, 0, len(guide.Techniques)+2)
	for i, tech := range guide.Techniques {
		rows = append(rows, []Button{{Label: tech.Name, Token: TechniqueToken(i, cat)}})
	}
	rows = append(rows,
		[]Button{{Label: "◀️ Other impulses", Token: TokenMyImpulses}},
		menuRow(),
	)
	return Screen{
		Text:     preface + guide.Title + "\n\nPick a technique to try right now:",
		Keyboard: rows,
	}
}

func techniqueScreen(title string, tech content.Technique) Screen {
	return Screen{
		Text: fmt.Sprintf("%s\n\n*%s*\n\n%s\n\nGive it a real try, then tell me how it went:",
			title, tech.Name, tech.Instruction),
		Keyboard: outcomeRows(),
	}
}

func exerciseScreen(e content.Exercise, repeatToken string) Screen {
	return Screen{
		Text: fmt.Sprintf("*%s*\n\n%s\n\nWhen you're done, tell me how it went:", e.Name, e.Instruction),
		Keyboard: outcomeRows(
			[]Button{{Label: "🔄 Another one", Token: repeatToken}},
		),
	}
}

func coachingScreen(question string) Screen {
	return Screen{
		Text: "🧠 *Coaching question*\n\nTake a minute with this one. " +
			"Answer honestly, out loud or in your head:\n\n" + question,
		Keyboard: outcomeRows(
			[]Button{{Label: "🔄 Another question", Token: TokenCoaching}},
		),
	}
}

func successScreen(quote string) Screen {
	return Screen{
		Text: quote,
		Keyboard: [][]Button{
			{{Label: "🆘 Another urge", Token: TokenEmergencyHelp}, {Label: "📊 My stats", Token: TokenShowStats}},
			menuRow(),
		},
	}
}

func dailyMotivationScreen(quote, challenge string) Screen {
	return Screen{
		Text: quote + "\n\n" + challenge,
		Keyboard: [][]Button{
			{{Label: "🔄 Another quote", Token: TokenDailyMotivation}},
			menuRow(),
		},
	}
}

func eveningReflectionScreen(quote string) Screen {
	return Screen{
		Text: quote,
		Keyboard: [][]Button{
			{{Label: "🔄 Another prompt", Token: TokenEveningReflection}},
			menuRow(),
		},
	}
}

func contactCoachScreen(coachURL string) Screen {
	return Screen{
		Text: "👤 *Talk to a human*\n\n" +
			"Sometimes a bot is not enough — and that's fine. " +
			"Our coach can help you dig into the habit behind the urges.",
		Keyboard: [][]Button{
			{{Label: "✉️ Message the coach", URL: coachURL}},
			menuRow(),
		},
	}
}

func justTalkScreen() Screen {
	return Screen{
		Text: "💬 *I'm here.*\n\n" +
			"You don't need a crisis to check in. If something is gnawing at you, " +
			"a coaching question can help you unpack it — or just breathe with me " +
			"for a minute.",
		Keyboard: [][]Button{
			{{Label: "🧠 Coaching question", Token: TokenCoaching}},
			{{Label: "🫁 Breathe together", Token: TokenBreathing}},
			menuRow(),
		},
	}
}

func faqScreen() Screen {
	return Screen{
		Text: "❓ *FAQ*\n\n" +
			"*Does this actually work?*\n" +
			"Urge-surfing techniques are standard CBT tools. The urge passes " +
			"whether you feed it or not — the techniques make the wait bearable.\n\n" +
			"*What counts as a win?*\n" +
			"You pressed «It helped» after riding out an urge. One win per urge.\n\n" +
			"*What is a streak?*\n" +
			"Consecutive calendar days with at least one win. Miss a day and it " +
			"resets — but your best streak is remembered.\n\n" +
			"*Is my data private?*\n" +
			"Yes. Counters only, no message contents, and logs older than 90 days " +
			"are deleted.",
		Keyboard: [][]Button{menuRow()},
	}
}

func renderStatsScreen(p models.Progress, helps, total, wins int) Screen {
	rate := 0
	if total > 0 {
		rate = wins * 100 / total
	}
	var b strings.Builder
	b.WriteString("📊 *Your stats*\n\n")
	fmt.Fprintf(&b, "🏆 Wins: %d\n", p.TotalInterventions)
	fmt.Fprintf(&b, "🔥 Current streak: %d days\n", p.CurrentStreak)
	fmt.Fprintf(&b, "⭐ Best streak: %d days\n", p.LongestStreak)
	fmt.Fprintf(&b, "🆘 Times you reached out: %d\n", helps)
	fmt.Fprintf(&b, "🎯 Techniques tried: %d (%d%% helped)\n", total, rate)
	if len(p.TechniqueCounts) > 0 {
		best, n := "", 0
		for k, v := range p.TechniqueCounts {
			if v > n || (v == n && k < best) {
				best, n = k, v
			}
		}
		fmt.Fprintf(&b, "💪 Your strongest area: %s (%d wins)\n", best, n)
	}
	return Screen{Text: b.String(), Keyboard: [][]Button{
		{{Label: "☀️ Daily motivation", Token: TokenDailyMotivation}},
		menuRow(),
	}}
}

func renderAboutScreen(users int) Screen {
	var b strings.Builder
	b.WriteString("ℹ️ *About CraveBreaker*\n\n")
	b.WriteString("A pocket companion for impulse control. Built on urge-surfing: " +
		"every craving is a wave, and waves pass.\n\n")
	if users > 0 {
		fmt.Fprintf(&b, "👥 People training with us: %d\n\n", users)
	}
	b.WriteString("Made by the SpotCoach team.")
	return Screen{Text: b.String(), Keyboard: [][]Button{
		{{Label: "👤 Contact a coach", Token: TokenContactCoach}},
		menuRow(),
	}}
}
