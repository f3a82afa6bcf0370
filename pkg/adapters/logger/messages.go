package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Device holder
		"Device generation %d on monitor %d": "モニター %[2]d でデバイス世代 %[1]d",
		"Device lost, surfaces invalidated":  "デバイスが失われ、サーフェスを無効化しました",

		// Allocator
		"Released %d surfaces":                         "%d 個のサーフェスを解放しました",
		"Device supplied %d of %d surfaces: %v":        "デバイスが確保できたサーフェスは %d / %d 個です: %v",
		"Allocated %d %s surfaces %dx%d on adapter %d": "アダプター %[5]d に %[3]dx%[4]d の %[2]s サーフェスを %[1]d 個確保しました",

		// Presenter
		"Presenting started":                 "表示を開始しました",
		"Presenting stopped after %d frames": "%d フレームで表示を停止しました",
		"Presentation step %s failed: %v":    "表示処理 %s に失敗しました: %v",

		// Renderer
		"Rendering mode %s":                                       "描画モード %s",
		"Rendering mode %s with default allocator-presenter":      "描画モード %s (標準アロケーター/プレゼンター)",
		"No allocator-presenter, frames will be discarded":        "アロケーター/プレゼンターがないため、フレームは破棄されます",
		"Windowless without clipping window, skipping allocation": "クリッピングウィンドウがないため、サーフェス確保を省略します",
		"Cannot read clipping window rect: %v":                    "クリッピングウィンドウの矩形を取得できません: %v",
		"Connected %s in %s mode with %d surfaces":                "%s を %s モードで接続しました (サーフェス %d 個)",
		"Disconnected":               "切断しました",
		"Stop presenting failed: %v": "表示の停止に失敗しました: %v",
		"Device lost, frames will be dropped until surfaces are restored": "デバイスが失われました。サーフェスが復旧するまでフレームを破棄します",
		"Terminate device failed: %v":                                     "デバイスの終了に失敗しました: %v",
		"Restored %d surfaces":                                            "%d 個のサーフェスを復旧しました",

		// Software graphics device
		"Created device on adapter %d with back buffer %dx%d": "アダプター %d にバックバッファ %dx%d のデバイスを作成しました",

		// X11 display
		"Xinerama unavailable: %v":               "Xineramaを利用できません: %v",
		"Xinerama query failed: %v":              "Xineramaの問い合わせに失敗しました: %v",
		"Output window %d created %dx%d":         "出力ウィンドウ %d を %dx%d で作成しました",
		"Output window %d destroyed":             "出力ウィンドウ %d を破棄しました",
		"Cannot set window title: %v":            "ウィンドウタイトルを設定できません: %v",
		"Cannot read output window geometry: %v": "出力ウィンドウのジオメトリを取得できません: %v",

		// MJPEG display
		"MJPEG stream at http://%s/stream":           "MJPEGストリーム: http://%s/stream",
		"MJPEG server failed: %v":                    "MJPEGサーバーが停止しました: %v",
		"MJPEG output stopped after %d frames":       "%d フレームでMJPEG出力を停止しました",
		"Stream client connected (total: %d)":        "ストリームクライアントが接続しました (合計: %d)",
		"Stream client disconnected (remaining: %d)": "ストリームクライアントが切断しました (残り: %d)",

		// Playback
		"Playing %s": "%s を再生中",
		"Played %d frames, %d dropped, %d presented":     "%d フレームを再生しました (ドロップ %d, 表示 %d)",
		"Frame %d hit a lost device, restoring surfaces": "フレーム %d でデバイスロストを検出、サーフェスを復旧します",
		"Frame %d dropped: %v":                           "フレーム %d を破棄しました: %v",
		"Disconnect failed: %v":                          "切断に失敗しました: %v",
	})
}
