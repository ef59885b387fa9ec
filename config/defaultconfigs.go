package config

import "github.com/sirupsen/logrus"

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground: true,
		FullWidthLetters:     false,
		Colors: ConfigColors{
			Hidden:      244,
			HiddenAlt:   243,
			Revealed:    252,
			RevealedAlt: 251,
			CursorBG:    4,
			Numbers:     [8]int{21, 28, 160, 18, 88, 30, 232, 240},
			Mine:        196,
			Flag:        202,
			Treasure:    178,
			Line:        94,
		},
		Symbols: ConfigSymbols{
			Hidden:    '■',
			Flag:      '⚑',
			Mine:      '✹',
			Treasure:  '◆',
			Empty:     ' ',
			WrongFlag: '✗',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameConfig{
			DefaultDifficulty: "beginner",
			Interface:         InterfaceGUI,
			TestBoardDir:      "",
		},
		Log: LogConfig{
			Path:  "",
			Level: logrus.InfoLevel.String(),
		},
	}
}
