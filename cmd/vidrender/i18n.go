// Package main provides localization for the vidrender CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Renderer":        "レンダラー",
		"Output":          "出力",
		"Graphics Device": "グラフィックデバイス",
		"Logging":         "ログ",

		// Root command
		"Render raw video frames to a window, a stream or image files":                                                                            "非圧縮の映像フレームをウィンドウ、ストリーム、画像ファイルに描画",
		"vidrender negotiates a surface pool on a software graphics device, copies raw frames into it and presents them to the selected display.": "vidrenderはソフトウェアグラフィックデバイス上でサーフェスプールを確保し、フレームをコピーして選択したディスプレイに表示します。",

		// Commands
		"Play a raw video MP4 file or a test pattern":          "非圧縮MP4ファイルまたはテストパターンを再生",
		"Write a test pattern as a raw video MP4 file":         "テストパターンを非圧縮MP4ファイルとして書き出し",
		"Render one frame and save the presented image as PNG": "1フレームを描画し、表示画像をPNGとして保存",
		"List the monitors of the X server":                    "Xサーバーのモニターを一覧表示",
		"Show version information":                             "バージョン情報を表示",
		"vidrender version %s":                                 "vidrender バージョン %s",

		// Renderer flags
		"YAML configuration file":                           "YAML設定ファイル",
		"Rendering mode (windowed, windowless, renderless)": "描画モード（windowed, windowless, renderless）",
		"Aspect ratio mode (stretch, letterbox)":            "アスペクト比モード（stretch, letterbox）",
		"Number of surfaces to allocate":                    "確保するサーフェス数",
		"Smallest acceptable number of surfaces":            "許容する最小サーフェス数",
		"Letterbox border color (hex, e.g., #000000)":       "レターボックスの枠色（16進数、例: #000000）",
		"Pace presentation to frame timestamps":             "フレームのタイムスタンプに合わせて表示",

		// Output flags
		"Display (x11, mjpeg, png, null)":     "ディスプレイ（x11, mjpeg, png, null）",
		"Output window width":                 "出力ウィンドウの幅",
		"Output window height":                "出力ウィンドウの高さ",
		"Listen address of the MJPEG display": "MJPEGディスプレイの待ち受けアドレス",
		"Directory of the PNG display":        "PNGディスプレイの出力ディレクトリ",

		// Device flags
		"Number of emulated adapters":              "エミュレートするアダプター数",
		"Surface limit per device (0 = unlimited)": "デバイスごとのサーフェス上限（0 = 無制限）",
		"Restrict textures to power-of-two sizes":  "テクスチャを2のべき乗サイズに制限",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Play flags
		"Restart the file when it ends":                          "ファイルの終端で先頭から再生",
		"Stop after this many frames (0 = all)":                  "指定フレーム数で停止（0 = 全て）",
		"Pixel layout of the test pattern when no file is given": "ファイル未指定時のテストパターンのピクセル形式",
		"Test pattern width":                                     "テストパターンの幅",
		"Test pattern height":                                    "テストパターンの高さ",
		"Test pattern frame rate":                                "テストパターンのフレームレート",
		"Output playback summary to file (Markdown format)":      "再生サマリーをファイルに出力（Markdown形式）",

		// Synth flags
		"Pixel layout (RGB24, RGB32, NV12, YV12, UYVY, YUY2)": "ピクセル形式（RGB24, RGB32, NV12, YV12, UYVY, YUY2）",
		"Frame width":      "フレームの幅",
		"Frame height":     "フレームの高さ",
		"Frame rate":       "フレームレート",
		"Number of frames": "フレーム数",

		// Snapshot flags
		"Output PNG file path (required)": "出力PNGファイルパス（必須）",
		"Index of the frame to capture":   "キャプチャするフレームの番号",

		// Monitors flags
		"List this many virtual monitors instead of querying X11": "X11に問い合わせず、指定数の仮想モニターを表示",
		"(primary)": "（プライマリ）",

		// Runtime messages
		"Playing %s on %s display...":   "%s を %s ディスプレイで再生中...",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Wrote %d frames of %s to %s":   "%[2]s の %[1]d フレームを %[3]s に書き出しました",
		"Snapshot saved to %s":          "スナップショットを %s に保存しました",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",

		// Error messages
		"Output file argument is required": "出力ファイル引数が必要です",
		"Input file not found: %s":         "入力ファイルが見つかりません: %s",

		// Summary content
		"Playback Summary": "再生サマリー",
		"Generated":        "生成日時",
		"Source":           "ソース",
		"Settings":         "設定",
		"Frames":           "フレーム",
		"Timing":           "タイミング",
		"Item":             "項目",
		"Value":            "値",
		"Name":             "名前",
		"Format":           "形式",
		"Data":             "データ量",

		// Settings section
		"Rendering Mode":    "描画モード",
		"Aspect Ratio Mode": "アスペクト比モード",
		"Buffers":           "バッファ数",
		"Display":           "ディスプレイ",
		"Realtime":          "リアルタイム",
		"yes":               "はい",
		"no":                "いいえ",

		// Frames section
		"Read":          "読み込み",
		"Rendered":      "描画",
		"Dropped":       "ドロップ",
		"Presented":     "表示",
		"Device Losses": "デバイスロスト",
		"Restores":      "復旧",

		// Timing section
		"Wall Clock":  "経過時間",
		"Media Time":  "メディア時間",
		"Frame Rate":  "フレームレート",
		"Interrupted": "中断",
	})
}
