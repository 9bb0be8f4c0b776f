package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleEn: enMessages,
		LocaleJa: jaMessages,
	}
}

var enMessages = map[string]string{
	// Common errors
	"error.missing_id":   "The id attribute is required",
	"error.network":      "A network error occurred. Please try again later",
	"error.load_failed":  "Failed to load data",
	"error.unknown":      "An unexpected error occurred",
	"error.rate_limited": "Too many requests. Please try again later",
	"error.expired":      "This widget has expired. Please reload the page",

	// BBS
	"bbs.default_title":        "BBS",
	"bbs.no_messages":          "No messages yet",
	"bbs.author":               "Name",
	"bbs.author_placeholder":   "Your name (optional)",
	"bbs.message":              "Message",
	"bbs.message_placeholder":  "Write a message",
	"bbs.default_author":       "Anonymous",
	"bbs.post":                 "Post",
	"bbs.update":               "Update",
	"bbs.posting":              "Posting...",
	"bbs.updating":             "Updating...",
	"bbs.cancel":               "Cancel",
	"bbs.edit":                 "Edit",
	"bbs.delete":               "Delete",
	"bbs.editing":              "Editing #%d",
	"bbs.delete_confirm":       "Delete this message?",
	"bbs.post_success":         "Your message was posted",
	"bbs.update_success":       "Your message was updated",
	"bbs.delete_success":       "The message was deleted",
	"bbs.no_edit_permission":   "You do not have permission to edit this message",
	"bbs.no_delete_permission": "You do not have permission to delete this message",
	"bbs.delete_not_confirmed": "Deletion was cancelled",
	"bbs.select":               "Select...",
	"bbs.emote":                "Emote",
	"bbs.pages":                "Pages",

	// Counter
	"counter.total":     "Total",
	"counter.today":     "Today",
	"counter.yesterday": "Yesterday",
	"counter.week":      "This week",
	"counter.month":     "This month",

	// Like
	"like.like":  "Like",
	"like.liked": "Liked",

	// Ranking
	"ranking.empty": "No entries yet",
	"ranking.rank":  "#%d",

	// Yokoso
	"yokoso.default": "Welcome!",

	// Server errors
	"server.bbs_not_found":      "BBS not found",
	"server.message_not_found":  "Message not found",
	"server.message_required":   "Message is required",
	"server.invalid_message_id": "Invalid message ID",
	"server.edit_forbidden":     "You can only edit your own messages",
	"server.delete_forbidden":   "You can only delete your own messages",
	"server.invalid_id":         "Invalid ID",
	"server.service_not_found":  "Service not found",
	"server.message_too_long":   "Message must be %d characters or less",
	"server.author_too_long":    "Author name must be %d characters or less",
	"server.wait_seconds":       "Please wait %d seconds before posting again",
	"server.max_messages":       "Maximum %d messages allowed",
}

var jaMessages = map[string]string{
	// Common errors
	"error.missing_id":   "id属性を指定してください",
	"error.network":      "ネットワークエラーが発生しました。しばらくしてから再度お試しください",
	"error.load_failed":  "データの読み込みに失敗しました",
	"error.unknown":      "予期しないエラーが発生しました",
	"error.rate_limited": "リクエストが多すぎます。しばらくしてから再度お試しください",
	"error.expired":      "ウィジェットの有効期限が切れました。ページを再読み込みしてください",

	// BBS
	"bbs.default_title":        "掲示板",
	"bbs.no_messages":          "まだメッセージがありません",
	"bbs.author":               "名前",
	"bbs.author_placeholder":   "名前（省略可）",
	"bbs.message":              "メッセージ",
	"bbs.message_placeholder":  "メッセージを入力",
	"bbs.default_author":       "名無しさん",
	"bbs.post":                 "投稿",
	"bbs.update":               "更新",
	"bbs.posting":              "投稿中...",
	"bbs.updating":             "更新中...",
	"bbs.cancel":               "キャンセル",
	"bbs.edit":                 "編集",
	"bbs.delete":               "削除",
	"bbs.editing":              "#%d を編集中",
	"bbs.delete_confirm":       "このメッセージを削除しますか？",
	"bbs.post_success":         "投稿しました",
	"bbs.update_success":       "更新しました",
	"bbs.delete_success":       "削除しました",
	"bbs.no_edit_permission":   "このメッセージを編集する権限がありません",
	"bbs.no_delete_permission": "このメッセージを削除する権限がありません",
	"bbs.delete_not_confirmed": "削除をキャンセルしました",
	"bbs.select":               "選択...",
	"bbs.emote":                "エモート",
	"bbs.pages":                "ページ",

	// Counter
	"counter.total":     "合計",
	"counter.today":     "今日",
	"counter.yesterday": "昨日",
	"counter.week":      "今週",
	"counter.month":     "今月",

	// Like
	"like.like":  "いいね",
	"like.liked": "いいね済み",

	// Ranking
	"ranking.empty": "まだランキングがありません",
	"ranking.rank":  "%d位",

	// Yokoso
	"yokoso.default": "ようこそ！",

	// Server errors
	"server.bbs_not_found":      "掲示板が見つかりません",
	"server.message_not_found":  "メッセージが見つかりません",
	"server.message_required":   "メッセージを入力してください",
	"server.invalid_message_id": "メッセージIDが不正です",
	"server.edit_forbidden":     "自分の投稿のみ編集できます",
	"server.delete_forbidden":   "自分の投稿のみ削除できます",
	"server.invalid_id":         "IDが不正です",
	"server.service_not_found":  "サービスが見つかりません",
	"server.message_too_long":   "メッセージは%d文字以内で入力してください",
	"server.author_too_long":    "名前は%d文字以内で入力してください",
	"server.wait_seconds":       "%d秒待ってから再度投稿してください",
	"server.max_messages":       "メッセージは最大%d件までです",
}
