package locale

import "github.com/foxseedlab/sprachpartner/internal/mode"

var titles = map[Locale]string{
	Russian:   "Русский",
	Ukrainian: "Українська",
	English:   "English",
	Turkish:   "Türkçe",
	Persian:   "فارسی",
	Arabic:    "العربية",
}

var explanationLanguages = map[Locale]string{
	Russian:   "Russian",
	Ukrainian: "Ukrainian",
	English:   "English",
	Turkish:   "Turkish",
	Persian:   "Persian (Farsi)",
	Arabic:    "Arabic",
}

// The empty locale holds the stems of the taught language.
// correctionTokens are whole words or word sequences. A trailing "*" lets the
// last word match as a prefix, for inflecting stems.
var correctionTokens = map[Locale][]string{
	"":        {"korrigier", "korrigiere", "korrigieren", "korrektur*"},
	Russian:   {"исправь", "исправьте", "исправить", "исправление", "исправления", "поправь", "поправьте"},
	Ukrainian: {"виправ", "виправте", "виправити", "виправлення", "поправ", "поправте"},
	English:   {"correct me", "correct my", "correct this", "correct it", "correction", "corrections", "fix this", "fix my", "fix it"},
	Turkish:   {"düzelt*"},
	Persian:   {"اصلاح کن*", "تصحیح کن*"},
	Arabic:    {"صحح*", "صحّح*", "تصحيح*"},
}

var modeLabels = map[Locale]map[mode.Mode]string{
	Russian:   {mode.Teacher: "Учитель", mode.Chat: "Собеседник", mode.Mix: "Микс", mode.Auto: "Авто"},
	Ukrainian: {mode.Teacher: "Вчитель", mode.Chat: "Співрозмовник", mode.Mix: "Мікс", mode.Auto: "Авто"},
	English:   {mode.Teacher: "Teacher", mode.Chat: "Chat", mode.Mix: "Mix", mode.Auto: "Auto"},
	Turkish:   {mode.Teacher: "Öğretmen", mode.Chat: "Sohbet", mode.Mix: "Karışık", mode.Auto: "Otomatik"},
	Persian:   {mode.Teacher: "معلم", mode.Chat: "گفتگو", mode.Mix: "ترکیبی", mode.Auto: "خودکار"},
	Arabic:    {mode.Teacher: "معلم", mode.Chat: "دردشة", mode.Mix: "مختلط", mode.Auto: "تلقائي"},
}

var tables = map[Locale]map[Key]string{
	Russian: {
		KeyGreet: "👋 Привет! Я твой Deutsch-бот.\nВыбери язык интерфейса:",
		KeyHelp: "Команды:\n" +
			"• /teacher_on — всегда исправляю и объясняю\n" +
			"• /teacher_off — только немецкий, без исправлений\n" +
			"• /mix — исправляю только по просьбе\n" +
			"• /auto — исправляю автоматически, но только если ошибки есть\n" +
			"• /status — показать текущий режим\n" +
			"• /language — сменить язык интерфейса\n" +
			"• /donate — поддержать проект ☕\n" +
			"• /stats — статистика бота (админ)\n\n" +
			"Отправь текст или голосовое сообщение!",
		KeyModeTeacherOn: "🧑‍🏫 Режим Учителя включён.",
		KeyModeChatOn:    "💬 Режим Собеседника включён.",
		KeyModeMixOn:     "🔀 Микс включён.",
		KeyModeAutoOn:    "🤖 Авто-режим: исправляю только если ошибки есть.",
		KeyStatus:        "⚙️ Текущий режим: {mode}",
		KeyDonateLong: "💬 Этот бот помогает практиковать немецкий.\n" +
			"Если он тебе полезен — можно поддержать проект ☕\n" +
			"Любая поддержка помогает развивать новые функции и держать бота живым ❤️",
		KeyDonateShort:      "☕ Нравится бот? Можно поддержать проект — это очень помогает 💛",
		KeyDonateButton:     "☕ Поддержать проект",
		KeyAdminOnly:        "Команда доступна только администратору.",
		KeyErrorVoice:       "Произошла ошибка. Попробуй ещё раз.",
		KeyErrorText:        "Извини, что-то пошло не так.",
		KeyVoiceUnavailable: "Голосовые сообщения сейчас недоступны.",
		KeyLanguageChoose:   "🌐 Выбери язык интерфейса:",
		KeyLanguageSet:      "✅ Язык интерфейса: {lang}",
		KeyCorrections:      "Исправления:",
		KeyNoErrors:         "Ошибок нет",
	},
	Ukrainian: {
		KeyGreet: "👋 Привіт! Я твій Deutsch-бот.\nОберіть мову інтерфейсу:",
		KeyHelp: "Команди:\n" +
			"• /teacher_on — завжди виправляю та пояснюю\n" +
			"• /teacher_off — лише німецькою, без виправлень\n" +
			"• /mix — виправляю лише на прохання\n" +
			"• /auto — виправляю автоматично, якщо є помилки\n" +
			"• /status — показати поточний режим\n" +
			"• /language — змінити мову інтерфейсу\n" +
			"• /donate — підтримати проєкт ☕\n" +
			"• /stats — статистика бота (адмін)\n\n" +
			"Надішли текст або голосове повідомлення!",
		KeyModeTeacherOn: "🧑‍🏫 Режим Вчителя увімкнено.",
		KeyModeChatOn:    "💬 Режим Співрозмовника увімкнено.",
		KeyModeMixOn:     "🔀 Мікс увімкнено.",
		KeyModeAutoOn:    "🤖 Авто-режим: виправляю лише якщо є помилки.",
		KeyStatus:        "⚙️ Поточний режим: {mode}",
		KeyDonateLong: "💬 Цей бот допомагає практикувати німецьку.\n" +
			"Якщо він корисний — можна підтримати проєкт ☕\n" +
			"Будь-яка підтримка допомагає розвивати нові функції ❤️",
		KeyDonateShort:      "☕ Подобається бот? Можна підтримати — це дуже допомагає 💛",
		KeyDonateButton:     "☕ Підтримати проєкт",
		KeyAdminOnly:        "Команда доступна лише адміністратору.",
		KeyErrorVoice:       "Сталася помилка. Спробуй ще раз.",
		KeyErrorText:        "Вибач, щось пішло не так.",
		KeyVoiceUnavailable: "Голосові повідомлення зараз недоступні.",
		KeyLanguageChoose:   "🌐 Оберіть мову інтерфейсу:",
		KeyLanguageSet:      "✅ Мову встановлено: {lang}",
		KeyCorrections:      "Виправлення:",
		KeyNoErrors:         "Помилок немає",
	},
	English: {
		KeyGreet: "👋 Hi! I’m your Deutsch-bot.\nPlease choose your interface language:",
		KeyHelp: "Commands:\n" +
			"• /teacher_on — always correct and explain\n" +
			"• /teacher_off — German only, no corrections\n" +
			"• /mix — correct only on request\n" +
			"• /auto — correct automatically if there are mistakes\n" +
			"• /status — show current mode\n" +
			"• /language — change interface language\n" +
			"• /donate — support the project ☕\n" +
			"• /stats — bot stats (admin)\n\n" +
			"Send me a text or a voice message!",
		KeyModeTeacherOn: "🧑‍🏫 Teacher mode enabled.",
		KeyModeChatOn:    "💬 Chat mode enabled.",
		KeyModeMixOn:     "🔀 Mix mode enabled.",
		KeyModeAutoOn:    "🤖 Auto mode: I correct only if there are mistakes.",
		KeyStatus:        "⚙️ Current mode: {mode}",
		KeyDonateLong: "💬 This bot helps you practice German.\n" +
			"If you find it useful, you can support the project ☕\n" +
			"Any support helps develop new features ❤️",
		KeyDonateShort:      "☕ Enjoying the bot? You can support the project — it really helps 💛",
		KeyDonateButton:     "☕ Support the project",
		KeyAdminOnly:        "This command is available to the administrator only.",
		KeyErrorVoice:       "An error occurred. Please try again.",
		KeyErrorText:        "Sorry, something went wrong.",
		KeyVoiceUnavailable: "Voice messages are not available right now.",
		KeyLanguageChoose:   "🌐 Choose your interface language:",
		KeyLanguageSet:      "✅ Interface language: {lang}",
		KeyCorrections:      "Corrections:",
		KeyNoErrors:         "No mistakes",
	},
	Turkish: {
		KeyGreet: "👋 Merhaba! Ben Deutsch-bot.\nLütfen arayüz dilini seç:",
		KeyHelp: "Komutlar:\n" +
			"• /teacher_on — her zaman düzeltir ve açıklarım\n" +
			"• /teacher_off — sadece Almanca, düzeltme yok\n" +
			"• /mix — sadece istek üzerine düzeltirim\n" +
			"• /auto — hata varsa otomatik düzeltirim\n" +
			"• /status — mevcut modu göster\n" +
			"• /language — arayüz dilini değiştir\n" +
			"• /donate — projeyi destekle ☕\n" +
			"• /stats — bot istatistikleri (admin)\n\n" +
			"Metin ya da sesli mesaj gönder!",
		KeyModeTeacherOn: "🧑‍🏫 Öğretmen modu etkin.",
		KeyModeChatOn:    "💬 Sohbet modu etkin.",
		KeyModeMixOn:     "🔀 Karışık mod etkin.",
		KeyModeAutoOn:    "🤖 Otomatik mod: Sadece hata varsa düzeltirim.",
		KeyStatus:        "⚙️ Mevcut mod: {mode}",
		KeyDonateLong: "💬 Bu bot Almanca pratiği yapmana yardımcı olur.\n" +
			"Faydalı bulduysan projeyi destekleyebilirsin ☕\n" +
			"Her destek yeni özelliklere yardımcı olur ❤️",
		KeyDonateShort:      "☕ Botu beğendin mi? Destek olabilirsin — çok yardımcı olur 💛",
		KeyDonateButton:     "☕ Projeyi destekle",
		KeyAdminOnly:        "Bu komut yalnızca yöneticiye özeldir.",
		KeyErrorVoice:       "Bir hata oluştu. Lütfen tekrar dene.",
		KeyErrorText:        "Üzgünüm, bir şeyler ters gitti.",
		KeyVoiceUnavailable: "Sesli mesajlar şu anda kullanılamıyor.",
		KeyLanguageChoose:   "🌐 Arayüz dilini seç:",
		KeyLanguageSet:      "✅ Arayüz dili: {lang}",
		KeyCorrections:      "Düzeltmeler:",
		KeyNoErrors:         "Hata yok",
	},
	Persian: {
		KeyGreet: "👋 سلام! من ربات آلمانی تو هستم.\nلطفاً زبان رابط را انتخاب کن:",
		KeyHelp: "دستورات:\n" +
			"• /teacher_on — همیشه تصحیح و توضیح می‌دهم\n" +
			"• /teacher_off — فقط آلمانی، بدون تصحیح\n" +
			"• /mix — فقط در صورت درخواست تصحیح می‌کنم\n" +
			"• /auto — اگر خطا باشد خودکار تصحیح می‌کنم\n" +
			"• /status — نمایش حالت فعلی\n" +
			"• /language — تغییر زبان رابط\n" +
			"• /donate — حمایت از پروژه ☕\n" +
			"• /stats — آمار بات (ادمین)\n\n" +
			"یک پیام متنی یا صوتی بفرست!",
		KeyModeTeacherOn: "🧑‍🏫 حالت معلم فعال شد.",
		KeyModeChatOn:    "💬 حالت گفتگو فعال شد.",
		KeyModeMixOn:     "🔀 حالت ترکیبی فعال شد.",
		KeyModeAutoOn:    "🤖 حالت خودکار: فقط در صورت وجود خطا تصحیح می‌کنم.",
		KeyStatus:        "⚙️ حالت فعلی: {mode}",
		KeyDonateLong: "💬 این بات به تمرین آلمانی کمک می‌کند.\n" +
			"اگر مفید است می‌توانی از پروژه حمایت کنی ☕\n" +
			"هر حمایتی به توسعه ویژگی‌های جدید کمک می‌کند ❤️",
		KeyDonateShort:      "☕ از بات راضی هستی؟ می‌توانی حمایت کنی — خیلی کمک می‌کند 💛",
		KeyDonateButton:     "☕ حمایت از پروژه",
		KeyAdminOnly:        "این دستور فقط برای ادمین در دسترس است.",
		KeyErrorVoice:       "خطا رخ داد. دوباره تلاش کن.",
		KeyErrorText:        "متأسفم، مشکلی پیش آمد.",
		KeyVoiceUnavailable: "پیام‌های صوتی در حال حاضر در دسترس نیستند.",
		KeyLanguageChoose:   "🌐 زبان رابط را انتخاب کن:",
		KeyLanguageSet:      "✅ زبان رابط: {lang}",
		KeyCorrections:      "اصلاحات:",
		KeyNoErrors:         "بدون خطا",
	},
	Arabic: {
		KeyGreet: "👋 أهلاً! أنا بوت الألمانية.\nيرجى اختيار لغة الواجهة:",
		KeyHelp: "الأوامر:\n" +
			"• /teacher_on — أصحح وأشرح دائماً\n" +
			"• /teacher_off — ألمانية فقط، بلا تصحيح\n" +
			"• /mix — أصحح عند الطلب فقط\n" +
			"• /auto — أصحح تلقائياً عند وجود أخطاء\n" +
			"• /status — عرض الوضع الحالي\n" +
			"• /language — تغيير لغة الواجهة\n" +
			"• /donate — دعم المشروع ☕\n" +
			"• /stats — إحصاءات البوت (المشرف)\n\n" +
			"أرسل رسالة نصية أو صوتية!",
		KeyModeTeacherOn: "🧑‍🏫 تم تفعيل وضع المعلم.",
		KeyModeChatOn:    "💬 تم تفعيل وضع الدردشة.",
		KeyModeMixOn:     "🔀 تم تفعيل الوضع المختلط.",
		KeyModeAutoOn:    "🤖 وضع تلقائي: أصحح فقط عند وجود أخطاء.",
		KeyStatus:        "⚙️ الوضع الحالي: {mode}",
		KeyDonateLong: "💬 هذا البوت يساعدك على ممارسة الألمانية.\n" +
			"إذا كان مفيداً يمكنك دعم المشروع ☕\n" +
			"أي دعم يساعد على تطوير ميزات جديدة ❤️",
		KeyDonateShort:      "☕ هل أعجبك البوت؟ يمكنك دعم المشروع — هذا يساعد كثيراً 💛",
		KeyDonateButton:     "☕ دعم المشروع",
		KeyAdminOnly:        "هذا الأمر متاح للمشرف فقط.",
		KeyErrorVoice:       "حدث خطأ. حاول مرة أخرى.",
		KeyErrorText:        "عذراً، حدث خطأ ما.",
		KeyVoiceUnavailable: "الرسائل الصوتية غير متاحة حالياً.",
		KeyLanguageChoose:   "🌐 اختر لغة الواجهة:",
		KeyLanguageSet:      "✅ لغة الواجهة: {lang}",
		KeyCorrections:      "التصحيحات:",
		KeyNoErrors:         "لا توجد أخطاء",
	},
}
